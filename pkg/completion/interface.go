package completion

import "context"

// Client is the completion interface consumed by handlers: given a sequence
// of role-tagged messages, return a generated reply or fail with *Error.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// Options tunes a single completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
}
