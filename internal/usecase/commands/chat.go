package commands

import (
	"context"
	"log/slog"
	"time"

	"groomdesk/internal/chat/debounce"
	"groomdesk/internal/pkg/clock"
	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

// ChatReply is what the responder produced for a coalesced message: the
// text to send back, and optionally a booking the customer confirmed in
// the conversation.
type ChatReply struct {
	Text    string
	Booking *BookInput
}

// Responder produces a reply for a coalesced customer message.
type Responder interface {
	Reply(ctx context.Context, conversationID, text string) (*ChatReply, error)
}

// Messenger delivers the reply back over the chat channel.
type Messenger interface {
	Send(ctx context.Context, conversationID, text string) error
}

type ChatCommands interface {
	// ReceiveMessage buffers an inbound message; the reply is produced
	// asynchronously once the conversation goes quiet.
	ReceiveMessage(ctx context.Context, conversationID, text string) (uuid.UUID, error)
	CancelConversation(ctx context.Context, conversationID string) error
	Shutdown()
}

type chatCommandsImpl struct {
	debouncer *debounce.Debouncer
	logger    *slog.Logger
}

// slotTakenReply is sent when a booking the customer confirmed in chat
// loses its slot before commit.
const slotTakenReply = "申し訳ありません、その時間は埋まってしまいました。別の時間をご指定ください。"

func NewChatCommands(
	store debounce.Store,
	responder Responder,
	messenger Messenger,
	booking BookingCommands,
	quiet time.Duration,
	clk clock.Clock,
	logger *slog.Logger,
) ChatCommands {
	flush := func(ctx context.Context, conversationID, text string, token uuid.UUID) error {
		reply, err := responder.Reply(ctx, conversationID, text)
		if err != nil {
			return errs.Wrap(err, "responder failed")
		}

		outgoing := reply.Text
		if reply.Booking != nil {
			out, err := booking.Book(ctx, *reply.Booking)
			switch {
			case err == nil:
				logger.Info("chat booking committed",
					slog.String("conversation_id", conversationID),
					slog.String("appointment_id", out.AppointmentID.String()),
				)
			case errs.Is(err, errs.ErrBookingConflict):
				outgoing = slotTakenReply
			default:
				return errs.Wrap(err, "chat booking failed")
			}
		}

		if err := messenger.Send(ctx, conversationID, outgoing); err != nil {
			return errs.Wrap(err, "failed to send reply")
		}
		logger.Info("chat reply sent",
			slog.String("conversation_id", conversationID),
			slog.String("token", token.String()),
		)
		return nil
	}
	return &chatCommandsImpl{
		debouncer: debounce.New(store, flush, quiet, clk, logger),
		logger:    logger,
	}
}

func (c *chatCommandsImpl) ReceiveMessage(_ context.Context, conversationID, text string) (uuid.UUID, error) {
	if conversationID == "" || text == "" {
		return uuid.Nil, errs.Mark(errs.New("conversation id and text are required"), errs.ErrDomainValidation)
	}
	return c.debouncer.OnMessage(conversationID, text), nil
}

func (c *chatCommandsImpl) CancelConversation(_ context.Context, conversationID string) error {
	if conversationID == "" {
		return errs.Mark(errs.New("conversation id is required"), errs.ErrDomainValidation)
	}
	c.debouncer.Cancel(conversationID)
	return nil
}

func (c *chatCommandsImpl) Shutdown() {
	c.debouncer.Stop()
}
