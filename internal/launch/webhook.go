package launch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Webhook POSTs events to <postURL>/v2/pump-buy, matching the real
// pump.fun indexer's webhook path this system models.
type Webhook struct {
	postURL    string
	httpClient *http.Client
}

// NewWebhook builds a Webhook posting to postURL.
func NewWebhook(postURL string) *Webhook {
	return &Webhook{postURL: postURL, httpClient: &http.Client{Timeout: 5 * time.Second}}
}

// Send implements Sink.
func (w *Webhook) Send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal launch event")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.postURL+"/v2/pump-buy", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "post launch webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// CheckHealth issues a GET to <postURL>/healthz. A non-2xx response
// aborts startup; the caller is expected to exit non-zero on error.
func CheckHealth(ctx context.Context, postURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, postURL+"/healthz", nil)
	if err != nil {
		return errors.Wrap(err, "build health check request")
	}
	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		return errors.Wrap(err, "health check request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
