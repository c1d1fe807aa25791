package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func completion(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func newTestClient(srv *httptest.Server, key string) *Client {
	c := NewClient(key, "gemini-1.5-flash", "gemini-1.5-flash-8b")
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()
	return c
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(completion("Estimado equipo,\n\nCuerpo."))
	}))
	defer srv.Close()

	c := newTestClient(srv, "user-key")
	text, err := c.Generate(context.Background(), "escribe una carta")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "Cuerpo") {
		t.Fatalf("text = %q", text)
	}
	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "user-key" {
		t.Errorf("key = %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "escribe una carta" {
		t.Errorf("request body = %+v", gotReq)
	}
}

func TestGenerateKeyMissing(t *testing.T) {
	c := NewClient("", "m", "")
	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, ErrKeyMissing) {
		t.Fatalf("err = %v, want ErrKeyMissing", err)
	}
}

func TestGenerateKeyRejected(t *testing.T) {
	for _, status := range []int{400, 401, 403} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := newTestClient(srv, "bad-key")
		_, err := c.Generate(context.Background(), "x")
		srv.Close()
		if !errors.Is(err, ErrKeyInvalid) {
			t.Fatalf("status %d: err = %v, want ErrKeyInvalid", status, err)
		}
	}
}

func TestGenerateFallsBackOnceWhenUnavailable(t *testing.T) {
	var mu sync.Mutex
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		models = append(models, r.URL.Path)
		n := len(models)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(completion("done"))
	}))
	defer srv.Close()

	c := newTestClient(srv, "key")
	text, err := c.Generate(context.Background(), "x")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "done" {
		t.Fatalf("text = %q", text)
	}
	if len(models) != 2 {
		t.Fatalf("calls = %d, want primary then fallback", len(models))
	}
	if !strings.Contains(models[1], "gemini-1.5-flash-8b") {
		t.Fatalf("second call did not use fallback model: %v", models)
	}
}

func TestGenerateUnavailableWithoutFallback(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv, "key")
	c.FallbackModel = ""
	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want exactly 1 without a fallback", calls)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv, "key")
	c.FallbackModel = ""
	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable for empty candidates", err)
	}
}
