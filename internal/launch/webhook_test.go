package launch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookSendPostsToExpectedPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	ev := newEvent("sig", keyFromByte(1), keyFromByte(2), keyFromByte(3))
	if err := w.Send(context.Background(), *ev); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/v2/pump-buy" {
		t.Fatalf("expected POST to /v2/pump-buy, got %q", gotPath)
	}
}

func TestWebhookSendNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	ev := newEvent("sig", keyFromByte(1), keyFromByte(2), keyFromByte(3))
	if err := w.Send(context.Background(), *ev); err == nil {
		t.Fatalf("expected an error for a non-2xx webhook response")
	}
}

func TestCheckHealthRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if err := CheckHealth(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected an error for a non-2xx health check")
	}
}

func TestCheckHealthAccepts2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := CheckHealth(context.Background(), srv.URL); err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
}
