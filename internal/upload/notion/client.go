// Package notion writes learning entries as pages of a Notion database.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
)

const (
	apiVersion = "2022-06-28"
	// maxTextRunes is the Notion cap for one rich_text content value.
	maxTextRunes = 2000
)

type Config struct {
	Token      string
	DatabaseID string
	BaseURL    string // default https://api.notion.com
	Timeout    time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.notion.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (c *Client) Name() string { return "notion" }

// Publish creates one page per classified entry. Failing entries do not stop
// the rest; their errors are joined.
func (c *Client) Publish(ctx context.Context, res pipeline.Result) error {
	if c.cfg.Token == "" || c.cfg.DatabaseID == "" {
		return common.NewAppError("CONFIG_ERROR", "notion token and database id are required", common.ErrConfig)
	}
	var errs []error
	created := 0
	for _, e := range res.Classified.All() {
		if err := c.CreatePage(ctx, e, res.ImageURL); err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", e.Phrase, err))
			continue
		}
		created++
	}
	c.logger.Info("notion.publish.done", "run_id", res.RunID, "created", created, "failed", len(errs))
	if len(errs) > 0 {
		return common.Mark(errors.Join(errs...), common.ErrUpload)
	}
	return nil
}

// CreatePage validates one entry and posts it as a database page.
func (c *Client) CreatePage(ctx context.Context, e entity.LearningEntry, imageURL string) error {
	if err := ValidateEntry(e, imageURL); err != nil {
		c.logger.Warn("notion.page.invalid", "phrase", e.Phrase, "error", err)
		return err
	}

	body, err := json.Marshal(buildPage(c.cfg.DatabaseID, e, imageURL))
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("notion.page.failed", "phrase", e.Phrase, "error", err)
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode/100 != 2 {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		c.logger.Warn("notion.page.failed", "phrase", e.Phrase, "status", resp.StatusCode, "code", apiErr.Code)
		return fmt.Errorf("notion: status %d: %s %s", resp.StatusCode, apiErr.Code, apiErr.Message)
	}
	c.logger.Info("notion.page.ok", "phrase", e.Phrase, "kind", e.Kind(), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// ValidateEntry checks an entry against Notion's limits before sending.
func ValidateEntry(e entity.LearningEntry, imageURL string) error {
	limit := common.MaxLength(maxTextRunes)
	v := common.NewValidator()
	v.Field("phrase", e.Phrase, common.Required, limit)
	v.Field("translation", e.Translation, limit)
	v.Field("explanation", e.Explanation, limit)
	v.Field("example", e.Example, limit)
	v.Field("image_url", imageURL, common.HTTPURL)
	return v.Error()
}
