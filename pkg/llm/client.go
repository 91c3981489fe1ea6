package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultEndpoint is the chat completions endpoint.
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-4o-mini-2024-07-18"
	// DefaultTemperature is used on every generation request.
	DefaultTemperature = 0.7
)

// RateLimitError is returned when the provider signals rate limiting.
// RetryAfter carries the provider's retry-after hint when present.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() (msg string) {
	msg = "rate limited by generation provider"
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s (retry after %s)", msg, e.RetryAfter)
	}
	return msg
}

// Client is a chat-completions API client.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a generation provider client.
func NewClient(apiKey, model string) (client *Client) {
	if model == "" {
		model = DefaultModel
	}
	client = &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: DefaultEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	return client
}

// SetEndpoint overrides the API endpoint. Used in tests.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Complete sends role-tagged messages to the provider and returns the
// single text blob of the first choice. jsonOutput requests structured
// JSON output from the provider.
func (c *Client) Complete(ctx context.Context, messages []Message, jsonOutput bool) (text string, err error) {
	chatReq := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: DefaultTemperature,
	}
	if jsonOutput {
		chatReq.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	var reqBody []byte
	reqBody, err = json.Marshal(chatReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return text, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return text, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return text, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return text, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		err = &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
		return text, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return text, err
	}

	var chatResp ChatResponse
	err = json.Unmarshal(respBody, &chatResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse provider response: %s", string(respBody))
		return text, err
	}

	if chatResp.Error != nil {
		err = errors.Errorf("provider error: %s", chatResp.Error.Message)
		return text, err
	}

	if len(chatResp.Choices) == 0 {
		err = errors.New("no content in provider response")
		return text, err
	}

	text = chatResp.Choices[0].Message.Content
	if text == "" {
		err = errors.New("empty content in provider response")
		return text, err
	}

	return text, err
}

// parseRetryAfter reads a Retry-After header value in seconds.
func parseRetryAfter(header string) (wait time.Duration) {
	if header == "" {
		return wait
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return wait
	}
	wait = time.Duration(seconds) * time.Second
	return wait
}
