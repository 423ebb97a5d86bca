package chat

import "context"

// Dispatcher is the top-level entry point invoked once per inbound event.
type Dispatcher interface {
	// Dispatch processes one event synchronously and returns its terminal
	// outcome. Handler errors never propagate: they are converted into a
	// logged event plus a best-effort user-facing message.
	Dispatch(ctx context.Context, ev Event) Outcome

	// Submit runs Dispatch on its own goroutine so the webhook response
	// returns immediately. It fails only when the gateway is not accepting
	// updates.
	Submit(ev Event) error
}

// ReplySender sends a text reply to a conversation. *telegram.Bot satisfies it.
type ReplySender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
