package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/screenshot-vocab/internal/async"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/export"
	"github.com/joseph-ayodele/screenshot-vocab/internal/ingest"
	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
	"github.com/joseph-ayodele/screenshot-vocab/internal/repository"
)

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func checkFormat(c *cli.Context) error {
	if f := c.String("format"); !validFormat(f) {
		return cli.Exit(fmt.Sprintf("unknown format %q (want text, json, yaml)", f), 1)
	}
	return nil
}

// ExtractAction processes one screenshot or every screenshot under a directory.
func ExtractAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: vocab extract <path>", 1)
	}
	if err := checkFormat(c); err != nil {
		return err
	}
	cfg, logger := appConfig(c), appLogger(c)
	ctx, stop := signalContext(c)
	defer stop()

	paths, stats, err := ingest.ScanImages(c.Args().First(), !c.Bool("include-hidden"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logger.Info("ingest.scan.ok", "root", c.Args().First(), "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	if len(paths) == 0 {
		fmt.Fprintln(c.App.Writer, "no screenshots found")
		return nil
	}

	proc, err := newProcessor(cfg, c.String("backend"), logger)
	if err != nil {
		return configError(err)
	}
	sinks, err := newSinks(ctx, cfg, c.StringSlice("upload"), c.StringSlice("image-host"), logger)
	if err != nil {
		return configError(err)
	}
	defer sinks.Close(logger)
	sinks.attach(proc)

	workers := cfg.Batch.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	runID := uuid.New().String()
	pool := async.NewPool(proc, logger, async.WithWorkers(workers), async.WithJobTimeout(cfg.Batch.JobTimeout))
	jobCtx := common.WithRunID(ctx, runID)
	for _, p := range paths {
		if err := pool.Submit(jobCtx, p); err != nil {
			logger.Warn("async.submit.failed", "path", p, "error", err)
			break
		}
	}
	pool.Wait()
	results := pool.Results()
	logger.Info("extract.done", "run_id", runID, "images", len(results), "workers", workers)

	if err := printResults(c.App.Writer, c.String("format"), results); err != nil {
		return err
	}
	if out := c.String("xlsx"); out != "" {
		if err := writeWorkbook(out, results); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		logger.Info("export.xlsx.written", "path", out)
	}
	return nil
}

// TextAction runs the pipeline on raw text, or on stdin when the argument is "-".
func TextAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(`usage: vocab text "<text>"`, 1)
	}
	if err := checkFormat(c); err != nil {
		return err
	}
	cfg, logger := appConfig(c), appLogger(c)
	ctx, stop := signalContext(c)
	defer stop()

	text := c.Args().First()
	if text == "-" {
		bs, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return cli.Exit(fmt.Sprintf("read stdin: %v", err), 1)
		}
		text = string(bs)
	}

	proc, err := newProcessor(cfg, c.String("backend"), logger)
	if err != nil {
		return configError(err)
	}
	sinks, err := newSinks(ctx, cfg, c.StringSlice("upload"), nil, logger)
	if err != nil {
		return configError(err)
	}
	defer sinks.Close(logger)
	sinks.attach(proc)

	res := proc.ProcessText(ctx, strings.TrimSpace(text))
	return printResults(c.App.Writer, c.String("format"), []pipeline.Result{res})
}

// CompareAction runs two backends on one screenshot and prints the judge's verdict.
func CompareAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: vocab compare <image>", 1)
	}
	if err := checkFormat(c); err != nil {
		return err
	}
	cfg, logger := appConfig(c), appLogger(c)
	ctx, stop := signalContext(c)
	defer stop()

	paths, _, err := ingest.ScanImages(c.Args().First(), true)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(paths) != 1 {
		return cli.Exit("compare takes a single image", 1)
	}

	primary, err := newProcessor(cfg, c.String("primary"), logger)
	if err != nil {
		return configError(err)
	}
	secondary, err := newProcessor(cfg, c.String("secondary"), logger)
	if err != nil {
		return configError(err)
	}
	judge, err := newComparator(cfg, c.String("judge"), logger)
	if err != nil {
		return configError(err)
	}

	dual := &pipeline.Dual{Primary: primary, Secondary: secondary, Comparator: judge, Logger: logger}
	out, cmpErr := dual.Run(ctx, paths[0])
	if err := printDual(c.App.Writer, c.String("format"), out); err != nil {
		return err
	}
	if cmpErr != nil {
		return cli.Exit(fmt.Sprintf("comparison failed: %v", cmpErr), 1)
	}
	return nil
}

// WatchAction processes screenshots as they land in a directory until interrupted.
func WatchAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: vocab watch <dir>", 1)
	}
	if err := checkFormat(c); err != nil {
		return err
	}
	cfg, logger := appConfig(c), appLogger(c)
	ctx, stop := signalContext(c)
	defer stop()

	proc, err := newProcessor(cfg, c.String("backend"), logger)
	if err != nil {
		return configError(err)
	}
	sinks, err := newSinks(ctx, cfg, c.StringSlice("upload"), c.StringSlice("image-host"), logger)
	if err != nil {
		return configError(err)
	}
	defer sinks.Close(logger)
	sinks.attach(proc)

	paths, err := ingest.Watch(ctx, ingest.WatchConfig{
		Root:       c.Args().First(),
		SkipHidden: true,
		Debounce:   c.Duration("debounce"),
	}, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	for p := range paths {
		jctx, cancel := context.WithTimeout(ctx, cfg.Batch.JobTimeout)
		res := proc.ProcessImage(jctx, p)
		cancel()
		if err := printResults(c.App.Writer, c.String("format"), []pipeline.Result{res}); err != nil {
			return err
		}
	}
	return nil
}

// ExportAction reads one run back from the notes store into a workbook.
func ExportAction(c *cli.Context) error {
	cfg, logger := appConfig(c), appLogger(c)
	ctx, stop := signalContext(c)
	defer stop()

	var runID uuid.UUID
	if s := c.String("run"); s != "" && s != "latest" {
		id, err := uuid.Parse(s)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid run id %q: %v", s, err), 1)
		}
		runID = id
	}

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer db.Close(logger)

	bs, err := export.NewService(repository.NewNotesRepository(db, logger), logger).ExportRunXLSX(ctx, runID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return cli.Exit(err.Error(), 1)
		}
		return err
	}
	out := c.String("out")
	if err := os.WriteFile(out, bs, 0o644); err != nil {
		return cli.Exit(fmt.Sprintf("write %s: %v", out, err), 1)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
	return nil
}

// HealthAction checks that tesseract runs, the notes database answers and,
// when configured, that the Notion database has the properties pages use.
func HealthAction(c *cli.Context) error {
	cfg, logger := appConfig(c), appLogger(c)
	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	failed := false
	if v, err := newOCR(cfg, logger).Version(ctx); err != nil {
		fmt.Fprintf(c.App.Writer, "tesseract: FAIL (%v)\n", err)
		failed = true
	} else {
		fmt.Fprintf(c.App.Writer, "tesseract: OK (%s)\n", v)
	}

	if err := checkStore(ctx, cfg, logger); err != nil {
		fmt.Fprintf(c.App.Writer, "notes store: FAIL (%v)\n", err)
		failed = true
	} else {
		fmt.Fprintln(c.App.Writer, "notes store: OK")
	}

	if cfg.Upload.NotionToken != "" && cfg.Upload.NotionDatabaseID != "" {
		rep, err := newNotion(cfg, logger).CheckDatabase(ctx)
		switch {
		case err != nil:
			fmt.Fprintf(c.App.Writer, "notion: FAIL (%v)\n", err)
			failed = true
		case !rep.OK():
			fmt.Fprintf(c.App.Writer, "notion: FAIL (%s)\n", rep)
			failed = true
		default:
			fmt.Fprintf(c.App.Writer, "notion: OK (%s)\n", rep)
		}
	}

	if failed {
		return cli.Exit("health check failed", 1)
	}
	return nil
}

func checkStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) error {
	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close(logger)
	return repository.NewNotesRepository(db, logger).HealthCheck(ctx)
}

func writeWorkbook(path string, results []pipeline.Result) error {
	bs, err := export.WriteWorkbook(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
