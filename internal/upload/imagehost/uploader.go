// Package imagehost publishes screenshots to public image hosts so that notes
// can link back to the source image.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

// Uploader sends one image file to a host and returns its public URL.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, path string) (string, error)
}

// readImage loads path and enforces the host limits before any network call.
func readImage(path string) ([]byte, error) {
	if !constants.IsImageExt(filepath.Ext(path)) {
		return nil, fmt.Errorf("%w: unsupported image type %q", common.ErrInvalidInput, filepath.Ext(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	switch {
	case info.Size() == 0:
		return nil, fmt.Errorf("%w: %s is empty", common.ErrInvalidInput, path)
	case info.Size() > constants.MaxUploadBytes:
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", common.ErrInvalidInput, path, info.Size(), constants.MaxUploadBytes)
	}
	return os.ReadFile(path)
}

// postMultipart sends data as the given form field and returns the body of a 2xx response.
func postMultipart(ctx context.Context, client *http.Client, url, field, path string, data []byte, headers map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return body, fmt.Errorf("non-2xx status: %d: %s", resp.StatusCode, truncate(string(body), 256))
	}
	return body, nil
}

// formRequest is what differs between providers on the wire.
type formRequest struct {
	url     string
	field   string // multipart file field, "image" unless set
	headers map[string]string
}

// upload runs the shared read, post, decode flow for one provider.
func upload(ctx context.Context, name string, client *http.Client, logger *slog.Logger, req formRequest, path string,
	link func(body []byte) (string, error)) (string, error) {
	start := time.Now()
	data, err := readImage(path)
	if err != nil {
		logger.Warn("upload.image.failed", "provider", name, "path", path, "error", err)
		return "", common.Mark(fmt.Errorf("%s: %w", name, err), common.ErrUpload)
	}

	field := req.field
	if field == "" {
		field = "image"
	}
	body, err := postMultipart(ctx, client, req.url, field, path, data, req.headers)
	if err == nil {
		var u string
		u, err = link(body)
		if err == nil {
			logger.Info("upload.image.ok", "provider", name, "path", path, "url", u,
				"bytes", len(data), "elapsed_ms", time.Since(start).Milliseconds())
			return u, nil
		}
	}
	logger.Warn("upload.image.failed", "provider", name, "path", path, "error", err,
		"elapsed_ms", time.Since(start).Milliseconds())
	return "", common.Mark(fmt.Errorf("%s: %w", name, err), common.ErrUpload)
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
