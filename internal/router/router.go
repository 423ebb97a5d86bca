package router

import (
	"fmt"
	"regexp"
	"strings"

	"telegram-chat-gateway/internal/chat"
)

type keywordHandler struct {
	pattern *regexp.Regexp
	handler chat.Handler
}

// Command binds a handler to an exact, case-sensitive command token
// (e.g. "/start"). The token is the first whitespace-delimited word of the
// message, so "/start now" still routes to "/start".
func (r *PrecedenceRouter) Command(name string, h chat.Handler) {
	r.commands[name] = h
}

// Keyword binds a handler to a case-insensitive whole-message pattern.
// Keyword handlers are evaluated in registration order, first match wins.
func (r *PrecedenceRouter) Keyword(pattern string, h chat.Handler) error {
	re, err := regexp.Compile(fmt.Sprintf("(?i)^(?:%s)$", strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$")))
	if err != nil {
		return fmt.Errorf("invalid keyword pattern %q: %w", pattern, err)
	}
	r.keywords = append(r.keywords, keywordHandler{pattern: re, handler: h})
	return nil
}

// Fallback binds the handler for any remaining text event. It must be
// registered last, which is enforced structurally: it is always checked
// after commands and keywords.
func (r *PrecedenceRouter) Fallback(h chat.Handler) {
	r.fallback = h
}

// Route implements Router.
func (r *PrecedenceRouter) Route(ev chat.Event) (chat.Handler, bool) {
	if !ev.HasText() {
		return nil, false
	}

	// 1. Explicit command — exact, case-sensitive match on the first token.
	if token := commandToken(ev.Text); token != "" {
		if h, ok := r.commands[token]; ok {
			return h, true
		}
	}

	// 2. Keyword handlers — registration order, first match wins.
	trimmed := strings.TrimSpace(ev.Text)
	for _, kw := range r.keywords {
		if kw.pattern.MatchString(trimmed) {
			return kw.handler, true
		}
	}

	// 3. Fallback handler — any remaining text event.
	if r.fallback != nil {
		return r.fallback, true
	}

	return nil, false
}

// commandToken extracts the leading "/command" token, or "" when the message
// is not command-shaped.
func commandToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	return fields[0]
}
