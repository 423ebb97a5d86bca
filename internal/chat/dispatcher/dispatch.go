package dispatcher

import (
	"context"

	"github.com/google/uuid"

	"telegram-chat-gateway/internal/chat"
	"telegram-chat-gateway/pkg/completion"
)

// Submit admits the event through the lifecycle gate and processes it on its
// own goroutine, so the webhook response returns immediately. Events for
// unrelated conversations run concurrently; same-conversation events are
// serialized inside Dispatch.
func (d *Dispatcher) Submit(ev chat.Event) error {
	if err := d.gate.Acquire(); err != nil {
		return chat.ErrNotAccepting
	}

	go func() {
		defer d.gate.Release()
		// Detach from the HTTP request context, which is cancelled as soon
		// as the webhook response is written.
		d.Dispatch(context.Background(), ev)
	}()

	return nil
}

// Dispatch processes one event to a terminal outcome. Handler failures are
// contained here: they become a logged event plus a best-effort user-facing
// message, never a transport-layer error.
func (d *Dispatcher) Dispatch(ctx context.Context, ev chat.Event) chat.Outcome {
	dispatchID := uuid.NewString()

	h, ok := d.router.Route(ev)
	if !ok {
		d.l.Debugf(ctx, "dispatch %s: update %d from %s has no matching handler, suppressed",
			dispatchID, ev.UpdateID, ev.Scope.UserID)
		return chat.OutcomeSuppressed
	}

	// Same-conversation dispatches run in arrival order; the append-only
	// history depends on it.
	unlock := d.locks.Lock(ev.ConversationID)
	defer unlock()

	// Any routed text event pins the conversation into existence: after a
	// command on a fresh chat the history holds exactly the system turn.
	d.store.GetOrCreate(ev.ConversationID)

	reply, err := h(ctx, ev)
	if err != nil {
		// Never leave a dangling unanswered user turn in context: undo the
		// turn appended before the failure, then apologize.
		d.store.RevertLastUserTurn(ev.ConversationID)

		kind := completion.KindOf(err)
		if kind == completion.KindUnauthenticated || kind == completion.KindFatal {
			d.l.Errorf(ctx, "dispatch %s: failed:completion kind=%s conversation=%d user=%s: %v",
				dispatchID, kind, ev.ConversationID, ev.Scope.UserID, err)
		} else {
			d.l.Warnf(ctx, "dispatch %s: failed:completion kind=%s conversation=%d user=%s: %v",
				dispatchID, kind, ev.ConversationID, ev.Scope.UserID, err)
		}
		reply = ApologyText
	}

	if reply == "" {
		return chat.OutcomeDelivered
	}

	if sendErr := d.sender.SendMessage(ctx, ev.ConversationID, reply); sendErr != nil {
		// Logged only — the webhook was already acknowledged, and failing it
		// would trigger the platform's redelivery storm.
		d.l.Errorf(ctx, "dispatch %s: reply delivery failed conversation=%d: %v",
			dispatchID, ev.ConversationID, sendErr)
		return chat.OutcomeFailed
	}

	return chat.OutcomeDelivered
}
