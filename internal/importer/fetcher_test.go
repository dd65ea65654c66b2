package importer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Date\tExercise\tReps\tSets\n"))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, time.Second)
	sheet, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if sheet != "Date\tExercise\tReps\tSets\n" {
		t.Fatalf("unexpected body %q", sheet)
	}
}

func TestHTTPFetcherRequiresURL(t *testing.T) {
	fetcher := NewHTTPFetcher("", time.Second)
	_, err := fetcher.Fetch(context.Background())
	if !errors.Is(err, ErrNoSourceURL) {
		t.Fatalf("expected ErrNoSourceURL got %v", err)
	}
}

func TestHTTPFetcherRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, time.Second)
	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}
