package imagehost

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultImgBBURL = "https://api.imgbb.com/1/upload"

type ImgBBConfig struct {
	APIKey   string
	Endpoint string // default https://api.imgbb.com/1/upload
	Timeout  time.Duration
}

type ImgBB struct {
	cfg    ImgBBConfig
	http   *http.Client
	logger *slog.Logger
}

func NewImgBB(cfg ImgBBConfig, logger *slog.Logger) *ImgBB {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultImgBBURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImgBB{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (b *ImgBB) Name() string { return "imgbb" }

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (b *ImgBB) Upload(ctx context.Context, path string) (string, error) {
	if b.cfg.APIKey == "" {
		return "", errors.New("imgbb: api key is not set")
	}
	endpoint := b.cfg.Endpoint + "?key=" + url.QueryEscape(b.cfg.APIKey)
	return upload(ctx, b.Name(), b.http, b.logger, formRequest{url: endpoint}, path, func(body []byte) (string, error) {
		var r imgbbResponse
		if err := decode(body, &r); err != nil {
			return "", err
		}
		if !r.Success || r.Data.URL == "" {
			return "", errors.New("imgbb reported failure")
		}
		return r.Data.URL, nil
	})
}
