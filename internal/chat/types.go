package chat

import (
	"context"

	"telegram-chat-gateway/internal/model"
)

// Event is one inbound chat-platform event, normalized off the wire envelope.
type Event struct {
	UpdateID       int64
	ConversationID int64
	Scope          model.Scope
	Text           string
}

// HasText reports whether the event carries a text payload. Events without
// one (stickers, voice notes) route to no handler and are suppressed.
func (e Event) HasText() bool {
	return e.Text != ""
}

// Handler is a unit of logic bound to a command, keyword pattern, or
// fallback. It returns the reply text to send; an empty reply with nil error
// sends nothing.
type Handler func(ctx context.Context, ev Event) (string, error)

// Outcome is the terminal state of one dispatch.
type Outcome string

const (
	// OutcomeDelivered: a reply (possibly an apology) reached the platform.
	OutcomeDelivered Outcome = "delivered"

	// OutcomeSuppressed: no handler matched; acknowledged without action.
	OutcomeSuppressed Outcome = "suppressed"

	// OutcomeFailed: the reply send itself failed. Logged only — the webhook
	// response stays 200 so the platform does not retry-storm the event.
	OutcomeFailed Outcome = "failed"
)
