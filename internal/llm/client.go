// Package llm wraps the chat-completion API used by the summarizer and the
// assistant endpoints.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"agent-console/internal/config"
)

var ErrEmptyResponse = errors.New("language model returned an empty response")

// Request is a single-turn completion.
type Request struct {
	Instructions string
	Input        string
	// JSON asks the model for a JSON object response.
	JSON bool
}

type Client struct {
	api   *openai.Client
	model string
}

// New builds a client from cfg. Callers should check cfg.Enabled() first.
func New(cfg config.AIConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Client{
		api:   openai.NewClientWithConfig(oc),
		model: cfg.Model,
	}
}

// Complete sends req and returns the trimmed text of the first choice.
// Deadlines come from ctx.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	chat := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Instructions},
			{Role: openai.ChatMessageRoleUser, Content: req.Input},
		},
	}
	if req.JSON {
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 rune.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// StripCodeFence removes a surrounding markdown code fence from model output.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
