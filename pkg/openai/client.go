// Package openai implements the completion gateway against an
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/awr103/medi8-final/pkg/chat"
)

// Provider responses are fully buffered; anything past this is cut off.
const maxResponseBytes = 1 << 20

// Params are the fixed generation parameters sent with every completion
// request. They come from configuration, never from the caller.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client issues single-attempt chat completion requests against one upstream
// provider. It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	params     Params
	logger     *zap.Logger
	httpClient *http.Client
}

// New creates a Client for the provider at baseURL. An empty apiKey is not
// rejected here; it surfaces as a provider auth failure on the first call.
func New(baseURL, apiKey string, params Params, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		params:  params,
		logger:  logger,
		httpClient: &http.Client{
			// Completions can be slow; one generous transport timeout,
			// no per-call overrides
			Timeout: 2 * time.Minute,
		},
	}
}

// completionRequest is the minimal request shape for the chat completions endpoint.
type completionRequest struct {
	Model       string         `json:"model"`
	Messages    []chat.Message `json:"messages"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float64        `json:"temperature"`
}

// completionResponse is the minimal response shape returned by the provider.
type completionResponse struct {
	Choices []struct {
		Message chat.Message `json:"message"`
	} `json:"choices"`
}

// Complete forwards the conversation upstream and returns the first
// candidate's text with surrounding whitespace trimmed. One attempt, no
// retries. Every failure mode - transport error, non-2xx status, undecodable
// body, empty choice list - comes back as a *chat.UpstreamError so callers
// never branch on provider detail.
func (c *Client) Complete(ctx context.Context, messages []chat.Message) (chat.Reply, error) {
	reply, err := c.complete(ctx, messages)
	if err != nil {
		return chat.Reply{}, &chat.UpstreamError{Err: err}
	}
	return reply, nil
}

func (c *Client) complete(ctx context.Context, messages []chat.Message) (chat.Reply, error) {
	reqBody, err := json.Marshal(completionRequest{
		Model:       c.params.Model,
		Messages:    messages,
		MaxTokens:   c.params.MaxTokens,
		Temperature: c.params.Temperature,
	})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	c.logger.Debug("forwarding request to provider",
		zap.String("url", url),
		zap.String("model", c.params.Model),
		zap.Int("message_count", len(messages)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return chat.Reply{}, fmt.Errorf("provider returned %d: %s", httpResp.StatusCode, truncate(string(body), 512))
	}

	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return chat.Reply{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return chat.Reply{}, errors.New("no choices in response")
	}

	return chat.Reply{AIReply: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
