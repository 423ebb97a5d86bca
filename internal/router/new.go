package router

import (
	"telegram-chat-gateway/internal/chat"
)

// Router maps an inbound event to the handler responsible for it.
type Router interface {
	// Route returns the first handler matching the event per precedence:
	// exact command, keyword patterns in registration order, fallback.
	// Events without a text payload yield no handler.
	Route(ev chat.Event) (chat.Handler, bool)
}

// PrecedenceRouter routes by fixed precedence over registered handlers.
// Ordering is a correctness invariant: keyword handlers are checked before
// the fallback, or every message silently degrades to the fallback path.
type PrecedenceRouter struct {
	commands map[string]chat.Handler
	keywords []keywordHandler
	fallback chat.Handler
}

// Ensure PrecedenceRouter implements Router interface
var _ Router = (*PrecedenceRouter)(nil)

// New creates an empty PrecedenceRouter.
// Convention: Factory function returns concrete type (not interface) for internal packages
func New() *PrecedenceRouter {
	return &PrecedenceRouter{
		commands: make(map[string]chat.Handler),
	}
}
