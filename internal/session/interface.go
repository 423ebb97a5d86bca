package session

import "telegram-chat-gateway/internal/model"

// Store holds per-conversation message history. It is a pure data structure:
// no I/O, never fails. The store exclusively owns all conversation data —
// accessors return copies, so no caller retains a live reference beyond a
// single dispatch.
type Store interface {
	// GetOrCreate returns the existing history for the conversation, lazily
	// initializing it with the default system turn on first contact.
	GetOrCreate(conversationID int64) []model.Turn

	// Append appends a turn. When the non-system length exceeds the
	// configured cap, the oldest non-system turns are evicted FIFO; the
	// system turn at index 0 is retained unconditionally.
	Append(conversationID int64, turn model.Turn)

	// RevertLastUserTurn removes the most recent turn only if its role is
	// user; no-op otherwise. Used to undo a user turn appended before a
	// downstream failure, so an orphaned unanswered turn cannot corrupt
	// future context.
	RevertLastUserTurn(conversationID int64)

	// Clear resets the conversation to the single default system turn.
	Clear(conversationID int64)

	// Len reports the current history length, system turn included.
	Len(conversationID int64) int
}
