package dispatcher

import (
	"telegram-chat-gateway/internal/chat"
	"telegram-chat-gateway/internal/router"
	"telegram-chat-gateway/internal/session"
	pkgLog "telegram-chat-gateway/pkg/log"
)

// Gate admits dispatches while the lifecycle state allows them and counts
// them as in-flight. *lifecycle.Coordinator satisfies it.
type Gate interface {
	Acquire() error
	Release()
}

// Dispatcher orchestrates Router → Session Store → handler → reply send,
// with error containment per event.
type Dispatcher struct {
	l      pkgLog.Logger
	router router.Router
	store  session.Store
	sender chat.ReplySender
	gate   Gate
	locks  *session.KeyedMutex
}

// Ensure Dispatcher implements the chat.Dispatcher interface
var _ chat.Dispatcher = (*Dispatcher)(nil)

// New creates a new Dispatcher.
func New(
	l pkgLog.Logger,
	rt router.Router,
	store session.Store,
	sender chat.ReplySender,
	gate Gate,
) *Dispatcher {
	return &Dispatcher{
		l:      l,
		router: rt,
		store:  store,
		sender: sender,
		gate:   gate,
		locks:  session.NewKeyedMutex(),
	}
}
