package ollama

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for a local Ollama-compatible model server.
type Config struct {
	BaseURL string        // default http://localhost:11434
	Model   string        // default deepseek-llm
	Timeout time.Duration // default 30s; local models are slow to warm up
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-llm"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (c *Client) Model() string { return c.cfg.Model }
