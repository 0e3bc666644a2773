package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Root       string        // directory to watch, not recursive
	SkipHidden bool
	Debounce   time.Duration // coalesce the write bursts screenshot tools produce
}

// Watch emits screenshot paths as they are created or rewritten under cfg.Root.
// The channel closes when ctx is done.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Root == "" {
		return nil, errors.New("watch root is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if info, err := os.Stat(cfg.Root); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, errors.New("watch root must be a directory")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("ingest.watch.failed", "error", err)
		return nil, err
	}
	if err := w.Add(cfg.Root); err != nil {
		_ = w.Close()
		return nil, err
	}
	logger.Info("ingest.watch.start", "root", cfg.Root, "debounce_ms", cfg.Debounce.Milliseconds())

	out := make(chan string, 64)
	go func() {
		defer close(out)
		defer func() { _ = w.Close() }()

		pending := map[string]time.Time{}
		tick := time.NewTicker(cfg.Debounce / 2)
		defer tick.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("ingest.watch.stop", "root", cfg.Root)
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) {
					continue
				}
				if !AllowedExt(e.Name) || (cfg.SkipHidden && IsHidden(e.Name)) {
					continue
				}
				pending[e.Name] = time.Now()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("ingest.watch.error", "error", err)
			case now := <-tick.C:
				for p, seen := range pending {
					if now.Sub(seen) < cfg.Debounce {
						continue
					}
					delete(pending, p)
					select {
					case out <- p:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return out, nil
}
