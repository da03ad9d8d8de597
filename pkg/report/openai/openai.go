// Package openai implements report.LanguageModel against an OpenAI
// compatible chat completions endpoint.
package openai

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

	"github.com/papercomputeco/artomo/pkg/report"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the chat completions client.
type Config struct {
	// BaseURL is the API root; "/chat/completions" is appended.
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client sends single-message chat completions.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(c Config, logger *slog.Logger) (*Client, error) {
	if c.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(c.BaseURL, "/"),
		apiKey:     c.APIKey,
		model:      c.Model,
		httpClient: &http.Client{Timeout: c.Timeout},
		logger:     logger,
	}, nil
}

// Complete sends prompt as the only user message and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, prompt string, params report.Params) (string, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if params.MaxTokens > 0 {
		body.MaxTokens = &params.MaxTokens
	}
	if params.Temperature > 0 {
		body.Temperature = &params.Temperature
	}
	if params.TopP > 0 {
		body.TopP = &params.TopP
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(data))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	attrs := []any{"model", out.Model, "duration", time.Since(start)}
	if out.Usage != nil {
		attrs = append(attrs, "prompt_tokens", out.Usage.PromptTokens, "completion_tokens", out.Usage.CompletionTokens)
	}
	c.logger.Debug("completion received", attrs...)

	return out.Choices[0].Message.Content, nil
}

var _ report.LanguageModel = (*Client)(nil)
