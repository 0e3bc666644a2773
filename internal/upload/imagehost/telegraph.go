package imagehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTelegraphURL = "https://telegra.ph"

// TelegraphConfig needs no credentials. BaseURL serves both the upload
// endpoint and the returned image paths.
type TelegraphConfig struct {
	BaseURL string // default https://telegra.ph
	Timeout time.Duration
}

// Telegraph uploads to telegra.ph, which answers with a site-relative src.
type Telegraph struct {
	cfg    TelegraphConfig
	http   *http.Client
	logger *slog.Logger
}

func NewTelegraph(cfg TelegraphConfig, logger *slog.Logger) *Telegraph {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTelegraphURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Telegraph{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (g *Telegraph) Name() string { return "telegraph" }

type telegraphItem struct {
	Src string `json:"src"`
}

func (g *Telegraph) Upload(ctx context.Context, path string) (string, error) {
	req := formRequest{url: g.cfg.BaseURL + "/upload", field: "file"}
	return upload(ctx, g.Name(), g.http, g.logger, req, path, func(body []byte) (string, error) {
		// failures come back as {"error": "..."} with a 200
		var fail struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &fail) == nil && fail.Error != "" {
			return "", fmt.Errorf("telegraph reported failure: %s", fail.Error)
		}
		var items []telegraphItem
		if err := decode(body, &items); err != nil {
			return "", err
		}
		if len(items) == 0 || items[0].Src == "" {
			return "", errors.New("telegraph returned no src")
		}
		src := items[0].Src
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			return src, nil
		}
		return g.cfg.BaseURL + "/" + strings.TrimLeft(src, "/"), nil
	})
}
