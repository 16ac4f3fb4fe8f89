package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/pkg/config"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

const systemPrompt = "You are the virtual receptionist of a pet grooming salon. " +
	"Answer briefly and politely; suggest booking a visit when appropriate. " +
	"When the customer has confirmed a booking, respond with a single JSON object: " +
	`{"action":"book","company_id":"...","location_id":"...","service_item_id":"...",` +
	`"staff_id":"...","customer_ref":"...","date":"YYYY-MM-DD","start":"HH:MM","reply":"..."}` +
	" where reply is the confirmation text for the customer and staff_id may be empty."

// OpenAIResponder produces replies via any OpenAI-compatible chat
// completions endpoint. When the model emits a booking directive, the
// directive is decoded into a booking input for the flush handler.
type OpenAIResponder struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewOpenAIResponder(cfg config.ChatConfig) *OpenAIResponder {
	return &OpenAIResponder{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: cfg.ResponderURL,
		apiKey:  cfg.ResponderKey,
		model:   cfg.ResponderModel,
	}
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type bookingDirective struct {
	Action        string `json:"action"`
	CompanyID     string `json:"company_id"`
	LocationID    string `json:"location_id"`
	ServiceItemID string `json:"service_item_id"`
	StaffID       string `json:"staff_id"`
	CustomerRef   string `json:"customer_ref"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	Reply         string `json:"reply"`
}

func (r *OpenAIResponder) Reply(ctx context.Context, conversationID, text string) (*commands.ChatReply, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "completion request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read completion response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.Newf("completion API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.Wrap(err, "failed to decode completion response")
	}
	if len(parsed.Choices) == 0 {
		return nil, errs.New("completion response has no choices")
	}
	return decodeReply(parsed.Choices[0].Message.Content)
}

// decodeReply turns the assistant content into a chat reply. Plain text
// passes through untouched; a book directive becomes a booking input.
func decodeReply(content string) (*commands.ChatReply, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return &commands.ChatReply{Text: content}, nil
	}

	var directive bookingDirective
	if err := json.Unmarshal([]byte(trimmed), &directive); err != nil || directive.Action != "book" {
		return &commands.ChatReply{Text: content}, nil
	}

	in, err := directiveToInput(directive)
	if err != nil {
		return nil, errs.Wrap(err, "malformed booking directive")
	}
	return &commands.ChatReply{Text: directive.Reply, Booking: in}, nil
}

func directiveToInput(d bookingDirective) (*commands.BookInput, error) {
	companyID, err := uuid.Parse(d.CompanyID)
	if err != nil {
		return nil, errs.Wrap(err, "invalid company id")
	}
	locationID, err := uuid.Parse(d.LocationID)
	if err != nil {
		return nil, errs.Wrap(err, "invalid location id")
	}
	serviceItemID, err := uuid.Parse(d.ServiceItemID)
	if err != nil {
		return nil, errs.Wrap(err, "invalid service item id")
	}
	var staffID *uuid.UUID
	if d.StaffID != "" {
		id, err := uuid.Parse(d.StaffID)
		if err != nil {
			return nil, errs.Wrap(err, "invalid staff id")
		}
		staffID = &id
	}
	date, err := time.ParseInLocation("2006-01-02", d.Date, time.UTC)
	if err != nil {
		return nil, errs.Wrap(err, "invalid date")
	}
	at, err := time.Parse("15:04", d.Start)
	if err != nil {
		return nil, errs.Wrap(err, "invalid start time")
	}
	return &commands.BookInput{
		CompanyID:     companyID,
		LocationID:    locationID,
		ServiceItemID: serviceItemID,
		StaffID:       staffID,
		CustomerRef:   d.CustomerRef,
		Date:          date,
		Start:         scheduling.MinuteOfDay(at.Hour()*60 + at.Minute()),
	}, nil
}
