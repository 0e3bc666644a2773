package imagehost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

// ProviderStats counts outcomes for one provider.
type ProviderStats struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Manager tries each uploader in order until one succeeds.
type Manager struct {
	uploaders []Uploader
	logger    *slog.Logger

	mu    sync.Mutex
	stats map[string]ProviderStats
}

func NewManager(logger *slog.Logger, uploaders ...Uploader) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{uploaders: uploaders, logger: logger, stats: map[string]ProviderStats{}}
}

func (m *Manager) Name() string { return "imagehost" }

func (m *Manager) Upload(ctx context.Context, path string) (string, error) {
	if len(m.uploaders) == 0 {
		return "", fmt.Errorf("%w: no image host configured", common.ErrUpload)
	}
	var errs []error
	for _, u := range m.uploaders {
		url, err := u.Upload(ctx, path)
		m.record(u.Name(), err == nil)
		if err == nil {
			return url, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
		m.logger.Info("upload.image.fallback", "provider", u.Name(), "path", path)
	}
	return "", common.Mark(errors.Join(errs...), common.ErrUpload)
}

func (m *Manager) record(name string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats[name]
	if ok {
		s.Succeeded++
	} else {
		s.Failed++
	}
	m.stats[name] = s
}

// Stats returns a copy of the per-provider counters.
func (m *Manager) Stats() map[string]ProviderStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]ProviderStats, len(m.stats))
	for k, v := range m.stats {
		out[k] = v
	}
	return out
}
