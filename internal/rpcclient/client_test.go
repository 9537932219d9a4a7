package rpcclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/piotrostr/shreds/internal/pubkey"
)

func TestTokenAccountBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != "getTokenAccountBalance" {
			t.Fatalf("unexpected method %q", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"value":{"amount":"123456789"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	balance, err := c.TokenAccountBalance(context.Background(), pubkey.Zero)
	if err != nil {
		t.Fatalf("TokenAccountBalance: %v", err)
	}
	if balance != 123456789 {
		t.Fatalf("expected 123456789, got %d", balance)
	}
}

func TestCallPropagatesRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.TokenAccountBalance(context.Background(), pubkey.Zero)
	if err == nil {
		t.Fatalf("expected an error from the rpc error envelope")
	}
}
