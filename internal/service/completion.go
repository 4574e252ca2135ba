package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nutrifit/backend/config"
)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the body sent to the chat-completion API
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// CompletionClient talks to an OpenAI-compatible chat-completion endpoint
type CompletionClient struct {
	apiKey      string
	apiURL      string
	model       string
	org         string
	temperature float64
	httpClient  *http.Client
}

// NewCompletionClient creates a client from the application configuration
func NewCompletionClient(cfg *config.Config) *CompletionClient {
	timeout := cfg.CompletionTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CompletionClient{
		apiKey:      cfg.CompletionAPIKey,
		apiURL:      cfg.CompletionAPIURL,
		model:       cfg.CompletionModel,
		org:         cfg.CompletionOrg,
		temperature: cfg.CompletionTemperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Complete sends prompt as a single user message and returns the reply text
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := CompletionRequest{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.org != "" {
		req.Header.Set("OpenAI-Organization", c.org)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrCompletionFailed, err)
	}
	log.Printf("[Completion] %s responded %d in %v", c.model, resp.StatusCode, time.Since(start))

	var parsed completionResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && parsed.Error != nil {
			return "", fmt.Errorf("%w: status %d: %s", ErrCompletionFailed, resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrCompletionFailed, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrCompletionFailed, decodeErr)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrCompletionFailed)
	}

	return parsed.Choices[0].Message.Content, nil
}
