package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"groomdesk/internal/pkg/config"
	"groomdesk/internal/pkg/errs"
)

// WebhookDispatcher forwards notification payloads to an external delivery
// service. With no webhook configured it only logs, which is enough for
// local development.
type WebhookDispatcher struct {
	client *http.Client
	url    string
	logger *slog.Logger
}

func NewWebhookDispatcher(cfg config.JobsConfig, logger *slog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		client: &http.Client{Timeout: 15 * time.Second},
		url:    cfg.NotificationWebhook,
		logger: logger,
	}
}

type webhookEnvelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func (d *WebhookDispatcher) Dispatch(ctx context.Context, kind string, payload []byte) error {
	if d.url == "" {
		d.logger.Info("notification (no webhook configured)",
			slog.String("kind", kind),
			slog.String("payload", string(payload)),
		)
		return nil
	}

	body, err := json.Marshal(webhookEnvelope{Kind: kind, Payload: payload})
	if err != nil {
		return errs.Wrap(err, "failed to encode webhook envelope")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "failed to build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "webhook request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errs.Newf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
