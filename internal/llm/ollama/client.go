package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/llm"
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func (c *Client) Name() string { return constants.BackendOllama }

// Generate posts a non-streaming /api/generate request and returns the
// "response" field of the reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
	}, nil, c.logger)
	if err != nil {
		c.logger.Error("llm.ollama.http_error", "req_id", rid, "model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("ollama: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if gr.Error != "" {
		return "", fmt.Errorf("ollama: %w", errors.New(gr.Error))
	}
	c.logger.Debug("llm.ollama.ok", "req_id", rid, "model", c.cfg.Model, "done", gr.Done,
		"response_len", len(gr.Response), "elapsed_ms", time.Since(start).Milliseconds())
	return gr.Response, nil
}
