//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"groomdesk/internal/chat/debounce"
	"groomdesk/internal/handler/api"
	"groomdesk/internal/pkg/clock"
	"groomdesk/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingResponder struct {
	mu      sync.Mutex
	texts   []string
	booking *commands.BookInput
}

func (r *recordingResponder) Reply(_ context.Context, _ string, text string) (*commands.ChatReply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return &commands.ChatReply{
		Text:    "承知しました。ご予約はいつになさいますか？",
		Booking: r.booking,
	}, nil
}

type recordingChatBooking struct {
	mu     sync.Mutex
	booked []commands.BookInput
}

func (b *recordingChatBooking) Book(_ context.Context, in commands.BookInput) (*commands.BookOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.booked = append(b.booked, in)
	return &commands.BookOutput{AppointmentID: uuid.New(), StaffID: uuid.New()}, nil
}

func (b *recordingChatBooking) CheckIn(context.Context, uuid.UUID) error      { return nil }
func (b *recordingChatBooking) StartService(context.Context, uuid.UUID) error { return nil }
func (b *recordingChatBooking) Complete(context.Context, uuid.UUID) error     { return nil }
func (b *recordingChatBooking) Cancel(context.Context, uuid.UUID) error       { return nil }

type recordingMessenger struct {
	mu    sync.Mutex
	sent  []string
	convs []string
}

func (m *recordingMessenger) Send(_ context.Context, conversationID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs = append(m.convs, conversationID)
	m.sent = append(m.sent, text)
	return nil
}

func newWebhookRouter(t *testing.T, quiet time.Duration) (*gin.Engine, *recordingResponder, *recordingMessenger, *recordingChatBooking) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	responder := &recordingResponder{}
	messenger := &recordingMessenger{}
	booking := &recordingChatBooking{}
	chat := commands.NewChatCommands(
		debounce.NewMemoryStore(),
		responder,
		messenger,
		booking,
		quiet,
		clock.NewRealClock(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	t.Cleanup(chat.Shutdown)

	router := gin.New()
	handler := api.NewWebhookHandler(chat)
	router.POST("/webhooks/chat", handler.ReceiveMessage)
	router.POST("/webhooks/chat/cancel", handler.CancelConversation)
	return router, responder, messenger, booking
}

func postChat(t *testing.T, router *gin.Engine, url string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReceiveMessage_BurstProducesOneReply(t *testing.T) {
	router, responder, messenger, _ := newWebhookRouter(t, 50*time.Millisecond)

	for _, text := range []string{"こんにちは", "猫もいます", "予約したいです"} {
		w := postChat(t, router, "/webhooks/chat", map[string]any{
			"conversation_id": "conv-1",
			"text":            text,
		})
		require.Equal(t, http.StatusAccepted, w.Code)
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		responder.mu.Lock()
		defer responder.mu.Unlock()
		return len(responder.texts) == 1
	}, time.Second, 10*time.Millisecond)

	responder.mu.Lock()
	require.Equal(t, []string{"予約したいです"}, responder.texts)
	responder.mu.Unlock()

	messenger.mu.Lock()
	require.Equal(t, []string{"conv-1"}, messenger.convs)
	messenger.mu.Unlock()
}

func TestReceiveMessage_MissingFields(t *testing.T) {
	router, _, _, _ := newWebhookRouter(t, 50*time.Millisecond)

	w := postChat(t, router, "/webhooks/chat", map[string]any{
		"conversation_id": "conv-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelConversation_DropsPendingReply(t *testing.T) {
	router, responder, _, _ := newWebhookRouter(t, 60*time.Millisecond)

	w := postChat(t, router, "/webhooks/chat", map[string]any{
		"conversation_id": "conv-2",
		"text":            "キャンセルテスト",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = postChat(t, router, "/webhooks/chat/cancel", map[string]any{
		"conversation_id": "conv-2",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	time.Sleep(150 * time.Millisecond)
	responder.mu.Lock()
	require.Empty(t, responder.texts)
	responder.mu.Unlock()
}

func TestReceiveMessage_ConfirmedBookingFlowsThroughBooking(t *testing.T) {
	router, responder, messenger, booking := newWebhookRouter(t, 40*time.Millisecond)

	staffID := uuid.New()
	responder.booking = &commands.BookInput{
		CompanyID:     uuid.New(),
		LocationID:    uuid.New(),
		ServiceItemID: uuid.New(),
		StaffID:       &staffID,
		CustomerRef:   "タマ",
		Date:          time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		Start:         10 * 60,
	}

	w := postChat(t, router, "/webhooks/chat", map[string]any{
		"conversation_id": "conv-3",
		"text":            "10時でお願いします",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		booking.mu.Lock()
		defer booking.mu.Unlock()
		return len(booking.booked) == 1
	}, time.Second, 10*time.Millisecond)

	booking.mu.Lock()
	require.Equal(t, "タマ", booking.booked[0].CustomerRef)
	require.Equal(t, staffID, *booking.booked[0].StaffID)
	booking.mu.Unlock()

	require.Eventually(t, func() bool {
		messenger.mu.Lock()
		defer messenger.mu.Unlock()
		return len(messenger.sent) == 1
	}, time.Second, 10*time.Millisecond)
}
