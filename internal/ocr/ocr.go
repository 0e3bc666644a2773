package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
)

// ErrUnsupported is returned for files that are not accepted screenshot types.
var ErrUnsupported = errors.New("unsupported image type")

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // default "eng"
	TessdataDir string

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	EnableTSVConfidence bool
	Clean               bool // strip UI noise after normalizing
	DetectLanguage      bool
}

type ExtractionResult struct {
	Text             string
	SourceType       string // constants.IMAGE
	Method           string // "image-ocr"
	Language         string // tesseract language pack used
	DetectedLanguage string // set when DetectLanguage is on
	Duration         time.Duration
	Warnings         []string
	Confidence       float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	lang   LanguageDetector
	logger *slog.Logger
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithRunner swaps the command runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithLanguageDetector swaps the detector used when Config.DetectLanguage is set.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(e *Extractor) {
		if d != nil {
			e.lang = d
		}
	}
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	if cfg.DetectLanguage && e.lang == nil {
		e.lang = NewLinguaDetector()
	}
	return e
}

// Extract runs OCR on one screenshot.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting ocr extraction", "path", path, "ext", ext)

	if !constants.IsImageExt(ext) {
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	st, err := os.Stat(path)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE}, fmt.Errorf("stat image: %w", err)
	}
	if st.IsDir() {
		return ExtractionResult{SourceType: constants.IMAGE}, fmt.Errorf("stat image: %s is a directory", path)
	}

	res, err := e.extractImage(ctx, path)
	res.Duration = time.Since(start)
	return res, err
}

// Version returns the first line of `tesseract --version`.
func (e *Extractor) Version(ctx context.Context) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version")
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", e.cfg.Tesseract, err)
	}
	// older builds print the banner on stderr
	s := strings.TrimSpace(string(out))
	if s == "" {
		s = strings.TrimSpace(string(errb))
	}
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line), nil
}
