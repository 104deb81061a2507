// Package ai orchestrates the generative model: prompt assembly from
// standup and tracker data, single-shot completion calls, and validated
// parsing of structured model output.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/zulandar/sprintdeck/internal/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// ErrUpstream marks a non-success response from the model API after
// retries are exhausted.
var ErrUpstream = errors.New("ai: upstream failure")

// Generator is the single-shot completion interface the handlers depend
// on. The model is stateless per request; all context travels in the
// prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent endpoint. Safe for
// concurrent use.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	http       *http.Client
}

// NewGeminiClient creates a client from configuration.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    defaultBaseURL,
		maxRetries: cfg.MaxRetries,
		http:       &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
	}
}

// NewGeminiClientWithBaseURL points the client at an alternate endpoint,
// for tests.
func NewGeminiClientWithBaseURL(cfg config.GeminiConfig, baseURL string) *GeminiClient {
	c := NewGeminiClient(cfg)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate issues one completion request and returns the model's raw text.
// Rate limits and server errors are retried with exponential backoff;
// other client errors fail immediately.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("ai: GEMINI_API_KEY not set")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("ai: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("ai: request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("ai: read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var gen generateResponse
		if err := json.Unmarshal(respBody, &gen); err != nil {
			return "", fmt.Errorf("ai: decode response: %w", err)
		}
		if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("%w: empty candidate", ErrUpstream)
		}

		var sb strings.Builder
		for _, p := range gen.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		return sb.String(), nil
	}

	return "", fmt.Errorf("ai: max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}
