package jdoodle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.ClientID = "test-id"
	cfg.ClientSecret = "test-secret"
	c, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New(Config{URL: "http://x"}, testLogger()); err == nil {
		t.Fatal("New() should reject missing credentials")
	}
}

func TestExecute_ForwardsAndRelays(t *testing.T) {
	var captured payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding provider payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":"42\n","statusCode":200,"memory":"8016","cpuTime":"0.01"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	raw, err := c.Execute(context.Background(), executor.Request{
		Language:     "python3",
		VersionIndex: "3",
		Code:         "print(42)",
		Stdin:        "unused",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// The request must carry credentials and the script verbatim.
	if captured.ClientID != "test-id" || captured.ClientSecret != "test-secret" {
		t.Error("provider payload should carry the configured credentials")
	}
	if captured.Script != "print(42)" || captured.Language != "python3" || captured.VersionIndex != "3" {
		t.Errorf("provider payload mismatch: %+v", captured)
	}
	if captured.Stdin != "unused" {
		t.Errorf("Stdin = %q, want forwarded", captured.Stdin)
	}

	// The response comes back byte-for-byte, provider fields included.
	var relayed map[string]any
	if err := json.Unmarshal(raw, &relayed); err != nil {
		t.Fatalf("relayed body is not JSON: %v", err)
	}
	if relayed["output"] != "42\n" {
		t.Errorf("output = %v", relayed["output"])
	}
	if relayed["cpuTime"] != "0.01" {
		t.Error("provider-specific fields must pass through unmodified")
	}
}

func TestExecute_ValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	tests := []struct {
		name string
		req  executor.Request
	}{
		{"missing language", executor.Request{VersionIndex: "3", Code: "x"}},
		{"missing versionIndex", executor.Request{Language: "python3", Code: "x"}},
		{"missing code", executor.Request{Language: "python3", VersionIndex: "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Execute(context.Background(), tt.req)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("want ErrValidation, got %v", err)
			}
		})
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("provider was called %d times; validation must happen before any network call", n)
	}
}

func TestExecute_ProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "daily limit reached", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Execute(context.Background(), executor.Request{
		Language: "python3", VersionIndex: "3", Code: "print(1)",
	})

	if !errors.Is(err, apperror.ErrExecution) {
		t.Fatalf("want ErrExecution, got %v", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("want an *AppError carrying provider detail")
	}
	if appErr.Message == "" {
		t.Error("provider detail should be attached to the error")
	}
}

func TestExecute_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately closed: every call now fails to connect

	c := newTestClient(t, srv.URL)
	_, err := c.Execute(context.Background(), executor.Request{
		Language: "python3", VersionIndex: "3", Code: "print(1)",
	})

	if !errors.Is(err, apperror.ErrExecution) {
		t.Errorf("transport failure should be ErrExecution, got %v", err)
	}
}
