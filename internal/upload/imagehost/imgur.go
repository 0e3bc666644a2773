package imagehost

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultImgurURL = "https://api.imgur.com/3/image"

type ImgurConfig struct {
	ClientID string
	Endpoint string // default https://api.imgur.com/3/image
	Timeout  time.Duration
}

type Imgur struct {
	cfg    ImgurConfig
	http   *http.Client
	logger *slog.Logger
}

func NewImgur(cfg ImgurConfig, logger *slog.Logger) *Imgur {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultImgurURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Imgur{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (i *Imgur) Name() string { return "imgur" }

type imgurResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		Link  string `json:"link"`
		Error any    `json:"error"`
	} `json:"data"`
}

func (i *Imgur) Upload(ctx context.Context, path string) (string, error) {
	if i.cfg.ClientID == "" {
		return "", errors.New("imgur: client id is not set")
	}
	headers := map[string]string{"Authorization": "Client-ID " + i.cfg.ClientID}
	return upload(ctx, i.Name(), i.http, i.logger, formRequest{url: i.cfg.Endpoint, headers: headers}, path, func(body []byte) (string, error) {
		var r imgurResponse
		if err := decode(body, &r); err != nil {
			return "", err
		}
		if !r.Success || r.Data.Link == "" {
			return "", errors.New("imgur reported failure")
		}
		return r.Data.Link, nil
	})
}
