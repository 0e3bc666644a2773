package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

var errNoAPIKey = errors.New("anthropic: missing API key")

func (c *Client) Name() string { return constants.BackendAnthropic }

// Generate sends one user message and returns the concatenated text blocks.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errNoAPIKey
	}
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)
	c.logger.Info("llm.anthropic.request", "req_id", rid, "model", c.cfg.Model, "prompt_len", len(prompt))

	msg, err := c.api.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.cfg.Model),
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: sdk.Float(c.cfg.Temperature),
		System:      []sdk.TextBlockParam{{Text: c.cfg.SystemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		c.logger.Error("llm.anthropic.error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty response (stop_reason %s)", msg.StopReason)
	}
	c.logger.Info("llm.anthropic.response", "req_id", rid, "stop_reason", msg.StopReason,
		"elapsed_ms", time.Since(start).Milliseconds())
	return strings.TrimSpace(b.String()), nil
}
