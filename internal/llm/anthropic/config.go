package anthropic

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joseph-ayodele/screenshot-vocab/internal/llm"
)

// Config for the Anthropic Messages backend.
type Config struct {
	APIKey       string // if empty, falls back to env ANTHROPIC_API_KEY
	BaseURL      string // optional, for proxies and tests
	Model        string
	Temperature  float64 // 0 selects the default 0.7
	MaxTokens    int64   // default 500
	SystemPrompt string  // default llm.HostedSystemRole
	Timeout      time.Duration
}

type Client struct {
	cfg    Config
	api    sdk.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = llm.HostedSystemRole
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{cfg: cfg, api: sdk.NewClient(opts...), logger: logger}
}

func (c *Client) Model() string { return c.cfg.Model }
