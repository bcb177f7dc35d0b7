package static

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchExec(t *testing.T) {
	t.Parallel()
	uaCh := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uaCh <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Test Page</title></head><body><p>By Jane Smith</p></body></html>`))
	}))
	defer srv.Close()

	f := New(2*time.Second, 1<<20, "citer-test/1.0")
	res, err := f.Exec(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if res.Title != "Test Page" {
		t.Fatalf("Title = %q, want %q", res.Title, "Test Page")
	}
	if res.Status != http.StatusOK {
		t.Fatalf("Status = %d", res.Status)
	}
	if res.Document == nil || !strings.Contains(res.Document.Text(), "Jane Smith") {
		t.Fatalf("document tree missing body text")
	}
	if gotUA := <-uaCh; gotUA != "citer-test/1.0" {
		t.Fatalf("User-Agent = %q", gotUA)
	}
}

func TestFetchExecHTTPError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := New(time.Second, 0, "ua").Exec(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if res.Status != http.StatusNotFound || res.Document != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("error should carry status, got %v", err)
	}
}

func TestFetchExecTruncatesBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Short</title></head><body>` + strings.Repeat("x", 4096) + `</body></html>`))
	}))
	defer srv.Close()

	res, err := New(time.Second, 64, "ua").Exec(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if res.Title != "Short" {
		t.Fatalf("Title = %q", res.Title)
	}
	if len(res.Document.Text()) > 64 {
		t.Fatalf("body not limited: %d chars", len(res.Document.Text()))
	}
}

func TestFetchExecEmptyURL(t *testing.T) {
	t.Parallel()
	if _, err := New(time.Second, 0, "ua").Exec(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
