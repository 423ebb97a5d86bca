package completion

import (
	"context"
	"fmt"
	"time"

	"telegram-chat-gateway/pkg/log"
)

// Manager orchestrates provider selection, fallback, and retry logic.
// Retry policy lives here, inside the adapter — the dispatch layer never
// retries a completion within a single event.
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // global timeout for entire fallback chain
}

// Ensure Manager implements the Client interface consumed by handlers
var _ Client = (*Manager)(nil)

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// Complete implements Client: it normalizes the messages into a Request and
// runs the fallback chain. On failure the returned error is always a *Error
// carrying the classification of the last provider failure.
func (m *Manager) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	resp, err := m.GenerateContent(ctx, &Request{
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GenerateContent iterates through providers in priority order with fallback logic
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, &Error{Kind: KindFatal, Provider: "none", Err: ErrNoProvidersConfigured}
	}

	// Create context with global timeout for entire fallback chain
	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error

	// Iterate through providers in priority order
	for _, provider := range m.providers {
		// Check if context is already cancelled (timeout exceeded)
		select {
		case <-ctx.Done():
			return nil, &Error{
				Kind:     KindTransient,
				Provider: provider.Name(),
				Err:      fmt.Errorf("global timeout exceeded: %w", ctx.Err()),
			}
		default:
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp)
			return resp, nil
		}

		// On failure, log error and try next provider
		m.logFailure(ctx, provider, err)
		lastErr = err

		// If fallback is disabled, stop after first provider
		if !m.config.FallbackEnabled {
			break
		}
	}

	// Return the classified error of the last provider so callers can key
	// their behavior on the failure kind.
	if ce, ok := lastErr.(*Error); ok {
		return nil, ce
	}
	return nil, &Error{
		Kind:     KindOf(lastErr),
		Provider: "all",
		Err:      fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr),
	}
}

// generateWithRetry implements retry with linear backoff. Only transient
// failures are retried: credential and policy failures look the same on the
// next attempt.
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	var lastErr error

	attempts := m.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * m.config.RetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &Error{Kind: KindTransient, Provider: provider.Name(), Err: ctx.Err()}
			}
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if KindOf(err) != KindTransient {
			break
		}
	}

	return nil, lastErr
}

// logSuccess logs successful LLM generation with metrics
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	m.logger.Infof(ctx, "completion succeeded: provider=%s model=%s input_tokens=%d output_tokens=%d",
		provider.Name(), provider.Model(), resp.Usage.InputTokens, resp.Usage.OutputTokens)
}

// logFailure logs failed LLM generation attempts
func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warnf(ctx, "completion failed: provider=%s model=%s kind=%s error=%v",
		provider.Name(), provider.Model(), KindOf(err), err)
}
