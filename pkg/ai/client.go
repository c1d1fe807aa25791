// Package ai calls the Gemini generateContent API for cover-letter drafting.
// The API key belongs to the user and is injected per client; the process
// itself holds no credential.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Error taxonomy surfaced to the UI. Each maps to a distinct user-facing
// state: configure a key, replace the key, or try again later.
var (
	ErrKeyMissing  = errors.New("ai: no API key configured")
	ErrKeyInvalid  = errors.New("ai: API key rejected")
	ErrUnavailable = errors.New("ai: generation service unavailable")
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client talks to the Gemini generateContent endpoint. When the primary
// model is unavailable the request is retried once against the fallback
// model; there is no other retry loop, failures surface to the user.
type Client struct {
	BaseURL       string
	HTTP          *http.Client
	Model         string
	FallbackModel string

	apiKey string
}

// NewClient builds a client for the given user API key. Model names fall
// back to the GEMINI_MODEL / GEMINI_FALLBACK_MODEL environment defaults.
func NewClient(apiKey, model, fallback string) *Client {
	if model == "" {
		model = os.Getenv("GEMINI_MODEL")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if fallback == "" {
		fallback = os.Getenv("GEMINI_FALLBACK_MODEL")
	}
	return &Client{
		BaseURL:       defaultBaseURL,
		HTTP:          &http.Client{Timeout: 60 * time.Second},
		Model:         model,
		FallbackModel: fallback,
		apiKey:        apiKey,
	}
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
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate returns the completion text for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrKeyMissing
	}
	text, err := c.generateWith(ctx, c.Model, prompt)
	if errors.Is(err, ErrUnavailable) && c.FallbackModel != "" && c.FallbackModel != c.Model {
		return c.generateWith(ctx, c.FallbackModel, prompt)
	}
	return text, err
}

func (c *Client) generateWith(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ErrKeyInvalid, resp.StatusCode)
	default:
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("ai: decoding response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, out.Error.Message)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", ErrUnavailable)
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: blank completion", ErrUnavailable)
	}
	return text, nil
}

// ValidateKey performs a minimal generation call to check the key works.
func (c *Client) ValidateKey(ctx context.Context) error {
	_, err := c.Generate(ctx, "Reply with the single word OK.")
	return err
}
