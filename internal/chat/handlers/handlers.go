package handlers

import (
	"context"

	"telegram-chat-gateway/internal/chat"
	"telegram-chat-gateway/internal/model"
	"telegram-chat-gateway/internal/session"
	"telegram-chat-gateway/pkg/completion"
)

// Static builds a handler that always replies with the given text and never
// touches conversation history.
func Static(text string) chat.Handler {
	return func(ctx context.Context, ev chat.Event) (string, error) {
		return text, nil
	}
}

// NewStart handles /start. Command handling does not append to history.
func NewStart() chat.Handler {
	return Static(WelcomeText)
}

// NewHelp handles /help.
func NewHelp() chat.Handler {
	return Static(HelpText)
}

// NewClear handles /clear: resets the conversation to the single default
// system turn.
func NewClear(store session.Store) chat.Handler {
	return func(ctx context.Context, ev chat.Event) (string, error) {
		store.Clear(ev.ConversationID)
		return ClearedText, nil
	}
}

// NewChat builds the free-text fallback handler: it appends the user turn,
// asks the completion client for a reply over the full history, and records
// the assistant turn. On completion failure the error propagates to the
// dispatcher, which reverts the user turn and sends the apology.
func NewChat(store session.Store, client completion.Client, opts completion.Options) chat.Handler {
	return func(ctx context.Context, ev chat.Event) (string, error) {
		store.Append(ev.ConversationID, model.Turn{Role: model.RoleUser, Content: ev.Text})

		turns := store.GetOrCreate(ev.ConversationID)
		messages := make([]completion.Message, 0, len(turns))
		for _, t := range turns {
			messages = append(messages, completion.Message{Role: string(t.Role), Content: t.Content})
		}

		reply, err := client.Complete(ctx, messages, opts)
		if err != nil {
			return "", err
		}

		store.Append(ev.ConversationID, model.Turn{Role: model.RoleAssistant, Content: reply})
		return reply, nil
	}
}
