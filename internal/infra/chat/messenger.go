package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"groomdesk/internal/pkg/config"
	"groomdesk/internal/pkg/errs"
)

// GraphMessenger sends replies over the Meta Graph API (Messenger /
// WhatsApp Business). The conversation id is the platform recipient id.
type GraphMessenger struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewGraphMessenger(cfg config.ChatConfig) *GraphMessenger {
	return &GraphMessenger{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: cfg.GraphAPIURL,
		token:   cfg.GraphAPIToken,
	}
}

type graphSendRequest struct {
	Recipient graphRecipient `json:"recipient"`
	Message   graphMessage   `json:"message"`
}

type graphRecipient struct {
	ID string `json:"id"`
}

type graphMessage struct {
	Text string `json:"text"`
}

func (m *GraphMessenger) Send(ctx context.Context, conversationID, text string) error {
	payload, err := json.Marshal(graphSendRequest{
		Recipient: graphRecipient{ID: conversationID},
		Message:   graphMessage{Text: text},
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode send request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/me/messages", bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, "failed to build send request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "send request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errs.Newf("graph API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
