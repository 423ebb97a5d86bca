package session

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"telegram-chat-gateway/internal/model"
)

const (
	// DefaultMaxTurns is the default cap on non-system turns per conversation.
	DefaultMaxTurns = 10

	// DefaultMaxConversations bounds the resident conversation map.
	// Least-recently-active conversations are dropped whole and lazily
	// recreated on next contact.
	DefaultMaxConversations = 4096
)

// Config configures the in-memory store.
type Config struct {
	MaxTurns         int
	MaxConversations int
	SystemPrompt     string
}

type conversation struct {
	turns []model.Turn
}

// InMemoryStore is the process-local Store implementation.
type InMemoryStore struct {
	mu            sync.Mutex
	conversations *lru.Cache[int64, *conversation]
	maxTurns      int
	systemPrompt  string
}

// Ensure InMemoryStore implements Store interface
var _ Store = (*InMemoryStore)(nil)

// New creates a new in-memory session store.
func New(cfg Config) (*InMemoryStore, error) {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.MaxConversations <= 0 {
		cfg.MaxConversations = DefaultMaxConversations
	}

	cache, err := lru.New[int64, *conversation](cfg.MaxConversations)
	if err != nil {
		return nil, err
	}

	return &InMemoryStore{
		conversations: cache,
		maxTurns:      cfg.MaxTurns,
		systemPrompt:  cfg.SystemPrompt,
	}, nil
}

// GetOrCreate implements Store.
func (s *InMemoryStore) GetOrCreate(conversationID int64) []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreateLocked(conversationID)
	out := make([]model.Turn, len(conv.turns))
	copy(out, conv.turns)
	return out
}

// Append implements Store.
func (s *InMemoryStore) Append(conversationID int64, turn model.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreateLocked(conversationID)
	conv.turns = append(conv.turns, turn)

	// Evict oldest non-system turns FIFO; index 0 is the system turn.
	if excess := len(conv.turns) - 1 - s.maxTurns; excess > 0 {
		conv.turns = append(conv.turns[:1], conv.turns[1+excess:]...)
	}
}

// RevertLastUserTurn implements Store.
func (s *InMemoryStore) RevertLastUserTurn(conversationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations.Get(conversationID)
	if !ok || len(conv.turns) <= 1 {
		return
	}
	if conv.turns[len(conv.turns)-1].Role != model.RoleUser {
		return
	}
	conv.turns = conv.turns[:len(conv.turns)-1]
}

// Clear implements Store.
func (s *InMemoryStore) Clear(conversationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations.Add(conversationID, &conversation{
		turns: []model.Turn{model.SystemTurn(s.systemPrompt)},
	})
}

// Len implements Store.
func (s *InMemoryStore) Len(conversationID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations.Get(conversationID)
	if !ok {
		return 0
	}
	return len(conv.turns)
}

func (s *InMemoryStore) getOrCreateLocked(conversationID int64) *conversation {
	if conv, ok := s.conversations.Get(conversationID); ok {
		return conv
	}
	conv := &conversation{
		turns: []model.Turn{model.SystemTurn(s.systemPrompt)},
	}
	s.conversations.Add(conversationID, conv)
	return conv
}
