// Package backend is the client for the external account service: login,
// server-side storage of the user's generation API key, and payment capture
// registration. The boundary normalizes the service's loosely shaped
// responses into canonical types before anything else sees them.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"cv-builder/internal/telemetry"
)

// ErrUnauthenticated is returned by calls that need a bearer token before
// Login has succeeded.
var ErrUnauthenticated = errors.New("backend: not logged in")

// User is the authenticated account.
type User struct {
	PurchasedProjects []string `json:"purchasedProjects"`
}

// Client talks to the account backend. The bearer token obtained by Login
// is held in memory and attached to every subsequent call.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.Mutex
	token string
	user  User
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Login exchanges credentials for a bearer token and stores it for later
// calls.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return User{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", body, false)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("backend: login failed with status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return User{}, fmt.Errorf("backend: decoding login response: %w", err)
	}
	if out.Token == "" {
		return User{}, errors.New("backend: login response missing token")
	}

	c.mu.Lock()
	c.token = out.Token
	c.user = out.User
	c.mu.Unlock()
	return out.User, nil
}

// LoggedIn reports whether a bearer token is held.
func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// Logout discards the stored token.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.user = User{}
}

// KeyStatus is the canonical shape of the server-side API-key record. The
// service reports it under several historical field names; normalization
// happens here and nowhere else.
type KeyStatus struct {
	Key    string
	HasKey bool
}

// FetchKeyStatus retrieves and normalizes the stored generation API key.
func (c *Client) FetchKeyStatus(ctx context.Context) (KeyStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/user/apikey", nil, true)
	if err != nil {
		return KeyStatus{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return KeyStatus{}, fmt.Errorf("backend: apikey fetch failed with status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return KeyStatus{}, err
	}
	return normalizeKeyResponse(raw)
}

// normalizeKeyResponse folds the service's three response variants
// (apikey, apiKey, hasApiKey) into one canonical KeyStatus.
func normalizeKeyResponse(raw []byte) (KeyStatus, error) {
	var fields struct {
		Lower   *string `json:"apikey"`
		Camel   *string `json:"apiKey"`
		HasFlag *bool   `json:"hasApiKey"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return KeyStatus{}, fmt.Errorf("backend: decoding apikey response: %w", err)
	}
	switch {
	case fields.Lower != nil && *fields.Lower != "":
		return KeyStatus{Key: *fields.Lower, HasKey: true}, nil
	case fields.Camel != nil && *fields.Camel != "":
		return KeyStatus{Key: *fields.Camel, HasKey: true}, nil
	case fields.HasFlag != nil:
		return KeyStatus{HasKey: *fields.HasFlag}, nil
	}
	return KeyStatus{}, nil
}

// StoreKey registers or replaces the generation API key server-side. The
// key value never reaches the logs.
func (c *Client) StoreKey(ctx context.Context, apiKey string) error {
	body, err := json.Marshal(map[string]string{"apiKey": apiKey})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPatch, "/user", body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("backend: storing key failed with status %d", resp.StatusCode)
	}
	return nil
}

// RegisterPayment forwards a payment capture to the backend. Best effort:
// any failure is logged and swallowed, the caller never blocks on it.
func (c *Client) RegisterPayment(ctx context.Context, saleID, userID string) {
	body, err := json.Marshal(map[string]string{"saleId": saleID, "userId": userID})
	if err != nil {
		return
	}
	resp, err := c.do(ctx, http.MethodPost, "/payments/register", body, true)
	if err != nil {
		telemetry.Warn("payment registration failed", map[string]any{"error": err.Error()})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		telemetry.Warn("payment registration rejected", map[string]any{"status": resp.StatusCode})
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, auth bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		c.mu.Lock()
		token := c.token
		c.mu.Unlock()
		if token == "" {
			return nil, ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return resp, nil
}
