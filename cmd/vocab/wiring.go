package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/compare"
	"github.com/joseph-ayodele/screenshot-vocab/internal/extract"
	"github.com/joseph-ayodele/screenshot-vocab/internal/llm"
	"github.com/joseph-ayodele/screenshot-vocab/internal/llm/anthropic"
	"github.com/joseph-ayodele/screenshot-vocab/internal/llm/ollama"
	"github.com/joseph-ayodele/screenshot-vocab/internal/llm/openai"
	"github.com/joseph-ayodele/screenshot-vocab/internal/ocr"
	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
	"github.com/joseph-ayodele/screenshot-vocab/internal/repository"
	"github.com/joseph-ayodele/screenshot-vocab/internal/upload/imagehost"
	"github.com/joseph-ayodele/screenshot-vocab/internal/upload/notion"
)

// newBackend builds the model client for name and the prompt template it expects.
func newBackend(cfg *common.Config, name string, logger *slog.Logger) (llm.Backend, llm.PromptFunc, error) {
	if name == "" {
		name = cfg.LLM.Backend
	}
	canon, ok := constants.CanonicalBackend(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown backend %q (want %s)", common.ErrConfig, name, strings.Join(constants.Backends(), ", "))
	}
	if err := cfg.ValidateFor(canon); err != nil {
		return nil, nil, err
	}
	switch canon {
	case constants.BackendOllama:
		return ollama.NewClient(ollama.Config{
			BaseURL: cfg.LLM.OllamaBaseURL,
			Model:   cfg.LLM.OllamaModel,
			Timeout: cfg.LLM.Timeout,
		}, logger), llm.BuildLocalExtractionPrompt, nil
	case constants.BackendAnthropic:
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.LLM.AnthropicAPIKey,
			Model:       cfg.LLM.AnthropicModel,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   int64(cfg.LLM.MaxTokens),
			Timeout:     cfg.LLM.Timeout,
		}, logger), llm.BuildExtractionPrompt, nil
	default:
		return openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.OpenAIAPIKey,
			BaseURL:     cfg.LLM.OpenAIBaseURL,
			Model:       cfg.LLM.OpenAIModel,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		}, logger), llm.BuildExtractionPrompt, nil
	}
}

func newOCR(cfg *common.Config, logger *slog.Logger) *ocr.Extractor {
	return ocr.NewExtractor(ocr.Config{
		Tesseract:           cfg.OCR.Tesseract,
		Lang:                cfg.OCR.Lang,
		TessdataDir:         cfg.OCR.TessdataDir,
		PSM:                 cfg.OCR.PSM,
		OEM:                 cfg.OCR.OEM,
		EnableTSVConfidence: cfg.OCR.TSVConfidence,
		Clean:               cfg.OCR.Clean,
		DetectLanguage:      cfg.OCR.DetectLang,
	}, logger)
}

func newTextExtractor(cfg *common.Config, logger *slog.Logger) extract.TextExtractor {
	return extract.NewOCRAdapter(newOCR(cfg, logger), logger)
}

// newProcessor assembles a single-backend pipeline.
func newProcessor(cfg *common.Config, backend string, logger *slog.Logger) (*pipeline.Processor, error) {
	b, prompt, err := newBackend(cfg, backend, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewProcessor(newTextExtractor(cfg, logger), llm.NewPhraseExtractor(b, prompt, logger), logger), nil
}

func newComparator(cfg *common.Config, judge string, logger *slog.Logger) (*compare.Comparator, error) {
	b, _, err := newBackend(cfg, judge, logger)
	if err != nil {
		return nil, err
	}
	return compare.NewComparator(b, logger), nil
}

// sinkSet holds the configured sinks and whatever they need closed afterwards.
type sinkSet struct {
	sinks  []pipeline.Sink
	images pipeline.ImageUploader
	hosts  *imagehost.Manager
	db     *repository.DB
}

func (s *sinkSet) attach(p *pipeline.Processor) {
	p.Sinks = s.sinks
	if s.images != nil {
		p.Images = s.images
	}
}

func (s *sinkSet) Close(logger *slog.Logger) {
	if s.hosts != nil {
		logger.Info("upload.image.stats", "stats", s.hosts.Stats())
	}
	if s.db != nil {
		s.db.Close(logger)
	}
}

// splitList flattens repeated and comma separated flag values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func newSinks(ctx context.Context, cfg *common.Config, uploads, hosts []string, logger *slog.Logger) (*sinkSet, error) {
	set := &sinkSet{}
	fail := func(err error) (*sinkSet, error) {
		set.Close(logger)
		return nil, err
	}
	for _, u := range splitList(uploads) {
		switch u {
		case "none":
		case "notion":
			if err := cfg.ValidateNotion(); err != nil {
				return fail(err)
			}
			set.sinks = append(set.sinks, newNotion(cfg, logger))
		case "store":
			db, err := openStore(ctx, cfg, logger)
			if err != nil {
				return fail(err)
			}
			set.db = db
			set.sinks = append(set.sinks, repository.NotesSink{Repo: repository.NewNotesRepository(db, logger)})
		default:
			return fail(fmt.Errorf("%w: unknown upload target %q (want none, notion, store)", common.ErrConfig, u))
		}
	}

	var uploaders []imagehost.Uploader
	for _, h := range splitList(hosts) {
		switch h {
		case "imgur":
			if cfg.Upload.ImgurClientID == "" {
				return fail(common.NewAppError("CONFIG_ERROR", "IMGUR_CLIENT_ID is required", common.ErrConfig))
			}
			uploaders = append(uploaders, imagehost.NewImgur(imagehost.ImgurConfig{ClientID: cfg.Upload.ImgurClientID}, logger))
		case "imgbb":
			if cfg.Upload.ImgBBAPIKey == "" {
				return fail(common.NewAppError("CONFIG_ERROR", "IMGBB_API_KEY is required", common.ErrConfig))
			}
			uploaders = append(uploaders, imagehost.NewImgBB(imagehost.ImgBBConfig{APIKey: cfg.Upload.ImgBBAPIKey}, logger))
		case "telegraph":
			uploaders = append(uploaders, imagehost.NewTelegraph(imagehost.TelegraphConfig{}, logger))
		default:
			return fail(fmt.Errorf("%w: unknown image host %q (want imgur, imgbb, telegraph)", common.ErrConfig, h))
		}
	}
	if len(uploaders) > 0 {
		set.hosts = imagehost.NewManager(logger, uploaders...)
		set.images = set.hosts
	}
	return set, nil
}

func newNotion(cfg *common.Config, logger *slog.Logger) *notion.Client {
	return notion.NewClient(notion.Config{
		Token:      cfg.Upload.NotionToken,
		DatabaseID: cfg.Upload.NotionDatabaseID,
		BaseURL:    cfg.Upload.NotionBaseURL,
	}, logger)
}

func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*repository.DB, error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Store.DSN,
		MaxConns:    cfg.Store.MaxConns,
		DialTimeout: cfg.Store.DialTimeout,
	}, logger)
	if err != nil {
		return nil, common.Mark(err, common.ErrDatabase)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close(logger)
		return nil, common.Mark(err, common.ErrDatabase)
	}
	return db, nil
}
