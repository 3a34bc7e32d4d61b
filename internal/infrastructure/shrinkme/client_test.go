package shrinkme

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShortenJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api"); got != "key-123" {
			t.Errorf("got api key %q, want key-123", got)
		}
		if got := r.URL.Query().Get("url"); got != "https://files.example.com/app.zip" {
			t.Errorf("got url %q", got)
		}
		fmt.Fprint(w, `{"status":"success","shortenedUrl":"https://shrtn.example/Ab12"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	got, err := client.Shorten(context.Background(), "key-123", "https://files.example.com/app.zip", "")
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if got != "https://shrtn.example/Ab12" {
		t.Fatalf("got %q", got)
	}
}

func TestShortenBareURLBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "https://shrtn.example/Ab12\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	got, err := client.Shorten(context.Background(), "key", "https://files.example.com/a.zip", "")
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if got != "https://shrtn.example/Ab12" {
		t.Fatalf("got %q", got)
	}
}

func TestShortenRetriesWithoutAlias(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		alias := r.URL.Query().Get("alias")
		mu.Lock()
		calls = append(calls, alias)
		mu.Unlock()
		if alias != "" {
			fmt.Fprint(w, `{"status":"error","message":"alias already taken"}`)
			return
		}
		fmt.Fprint(w, `{"status":"success","shortenedUrl":"https://shrtn.example/fallback"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	got, err := client.Shorten(context.Background(), "key", "https://files.example.com/a.zip", "AbC12345")
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if got != "https://shrtn.example/fallback" {
		t.Fatalf("got %q", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 || calls[0] != "AbC12345" || calls[1] != "" {
		t.Fatalf("unexpected call sequence: %v", calls)
	}
}

func TestShortenNon200SoftFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	got, err := client.Shorten(context.Background(), "key", "https://files.example.com/a.zip", "")
	if err != nil {
		t.Fatalf("soft failure must not return an error: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestShortenUnreachableProviderSoftFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	got, err := client.Shorten(context.Background(), "key", "https://files.example.com/a.zip", "")
	if err != nil {
		t.Fatalf("soft failure must not return an error: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestShortenGarbageBodySoftFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>maintenance</html>")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	got, err := client.Shorten(context.Background(), "key", "https://files.example.com/a.zip", "")
	if err != nil {
		t.Fatalf("soft failure must not return an error: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
