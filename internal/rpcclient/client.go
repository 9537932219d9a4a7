// Package rpcclient is a minimal JSON-RPC client for the Solana RPC
// endpoints this pipeline touches exactly once: the pool-state reducer's
// startup bootstrap of vault token balances. It is deliberately not a
// general-purpose Solana RPC library; there is no pack dependency that
// fits a single-shot unary JSON-over-HTTP call this narrow, so it is
// built on net/http directly.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/piotrostr/shreds/internal/pubkey"
)

// Client issues JSON-RPC 2.0 requests against a single Solana RPC URL.
type Client struct {
	url        string
	httpClient *http.Client
}

// New returns a Client bound to url, with a conservative request timeout
// since bootstrap blocks startup.
func New(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return errors.Wrap(err, "marshal rpc request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build rpc request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "rpc call %s", method)
	}
	defer resp.Body.Close()

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrapf(err, "decode rpc response for %s", method)
	}
	if envelope.Error != nil {
		return errors.Errorf("rpc %s: %d %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(envelope.Result, out), "unmarshal result for %s", method)
}

type tokenBalanceResult struct {
	Value struct {
		Amount string `json:"amount"`
	} `json:"value"`
}

// TokenAccountBalance fetches the raw (non-UI, pre-decimal) token amount
// held by an SPL token account, used to seed a pool's vault reserves.
func (c *Client) TokenAccountBalance(ctx context.Context, account pubkey.Key) (uint64, error) {
	var result tokenBalanceResult
	err := c.call(ctx, "getTokenAccountBalance", []interface{}{account.String()}, &result)
	if err != nil {
		return 0, err
	}
	amount, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse token amount for %s", account)
	}
	return amount, nil
}

type healthResult string

// Health issues getHealth and returns the node's result string; an RPC
// error envelope is returned as an error. The arb-mode bootstrap does not
// call it.
func (c *Client) Health(ctx context.Context) (string, error) {
	var result healthResult
	if err := c.call(ctx, "getHealth", nil, &result); err != nil {
		return "", err
	}
	return string(result), nil
}
