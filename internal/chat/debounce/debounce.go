// Package debounce coalesces bursts of inbound chat messages per conversation
// into a single downstream invocation of the AI responder.
//
// Each conversation moves through a small state machine: Idle (no buffer
// entry), Buffering (entry + pending timer), Flushing (timer fired, handler
// running). A per-burst flush token is the sole cross-invocation correctness
// mechanism: a timer whose captured token no longer matches the buffer's
// current token belongs to a superseded burst and must do nothing.
package debounce

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"groomdesk/internal/pkg/clock"

	"github.com/google/uuid"
)

// FlushFunc is the injected downstream handler ("call the AI responder").
// Failures are logged, never retried here; retry policy belongs to the
// handler itself.
type FlushFunc func(ctx context.Context, conversationID, text string, token uuid.UUID) error

// sentinelToken is a token no live timer ever carries. Cancelling a
// conversation swaps it into the buffer so any in-flight timer misses.
var sentinelToken = uuid.Nil

type Debouncer struct {
	store  Store
	flush  FlushFunc
	quiet  time.Duration
	clk    clock.Clock
	logger *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(store Store, flush FlushFunc, quiet time.Duration, clk clock.Clock, logger *slog.Logger) *Debouncer {
	return &Debouncer{
		store:  store,
		flush:  flush,
		quiet:  quiet,
		clk:    clk,
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// OnMessage records an inbound message and (re)arms the conversation's quiet-
// period timer. Later messages supersede earlier ones: the eventual flush
// carries only the latest text. Returns the burst's flush token.
func (d *Debouncer) OnMessage(conversationID, text string) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.timers[conversationID]; ok {
		prev.Stop()
	}

	token := uuid.New()
	d.store.Put(Buffer{
		ConversationID: conversationID,
		Text:           text,
		LastActivity:   d.clk.Now(),
		Token:          token,
	})
	d.timers[conversationID] = time.AfterFunc(d.quiet, func() {
		d.fire(conversationID, token)
	})
	return token
}

// Cancel aborts any pending burst for the conversation. The buffer token is
// replaced with a sentinel before deletion so a timer that already fired and
// is waiting on the lock can never match.
func (d *Debouncer) Cancel(conversationID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[conversationID]; ok {
		t.Stop()
		delete(d.timers, conversationID)
	}
	if buf, ok := d.store.Get(conversationID); ok {
		buf.Token = sentinelToken
		d.store.Put(buf)
		d.store.Delete(conversationID)
	}
}

// Stop cancels every pending timer. Used at shutdown; buffered text that has
// not reached its quiet period is dropped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}

// fire runs when a quiet-period timer elapses. The token captured at timer
// creation gates every step: a stale timer (newer message re-armed the burst)
// discards silently, and cleanup after the flush handler only deletes the
// buffer if no newer message arrived mid-flush.
func (d *Debouncer) fire(conversationID string, token uuid.UUID) {
	d.mu.Lock()
	buf, ok := d.store.Get(conversationID)
	if !ok || buf.Token != token {
		d.mu.Unlock()
		return
	}
	delete(d.timers, conversationID)
	d.mu.Unlock()

	// Token-gated cleanup must run regardless of handler outcome so a
	// failing handler cannot leave a zombie buffer behind.
	defer d.cleanup(conversationID, token)
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("flush handler panicked",
				"conversation_id", conversationID, "panic", r)
		}
	}()

	if err := d.flush(context.Background(), conversationID, buf.Text, token); err != nil {
		d.logger.Warn("flush handler failed",
			"conversation_id", conversationID, "error", err.Error())
	}
}

func (d *Debouncer) cleanup(conversationID string, token uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if buf, ok := d.store.Get(conversationID); ok && buf.Token == token {
		d.store.Delete(conversationID)
	}
}
