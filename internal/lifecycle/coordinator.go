package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"telegram-chat-gateway/pkg/log"
	"telegram-chat-gateway/pkg/telegram"
)

// DefaultGracePeriod bounds how long Stop waits for in-flight dispatches.
const DefaultGracePeriod = 15 * time.Second

// ErrInvalidTransition is returned for out-of-order Start/Stop calls.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// Registrar is the platform webhook registration surface.
// *telegram.Bot satisfies it.
type Registrar interface {
	GetWebhookInfo(ctx context.Context) (*telegram.WebhookInfo, error)
	SetWebhook(ctx context.Context, webhookURL string) error
}

// Coordinator manages the bot's startup sequence and graceful shutdown:
// no update is processed before initialization completes, and none is left
// in flight at shutdown.
type Coordinator struct {
	l          log.Logger
	registrar  Registrar
	webhookURL string
	grace      time.Duration

	state    atomic.Int32
	inflight sync.WaitGroup

	// admitMu serializes Acquire's check-and-add against Stop's transition
	// to stopping, so no dispatch is admitted after draining begins.
	admitMu sync.Mutex
}

// New creates a Coordinator targeting the given webhook URL.
func New(l log.Logger, registrar Registrar, webhookURL string, grace time.Duration) *Coordinator {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	c := &Coordinator{
		l:          l,
		registrar:  registrar,
		webhookURL: webhookURL,
		grace:      grace,
	}
	c.state.Store(int32(StateUninitialized))
	return c
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Accepting reports whether updates may be dispatched. Webhook acceptance
// requires the running state; otherwise the transport answers
// "service unavailable".
func (c *Coordinator) Accepting() bool {
	return c.State() == StateRunning
}

// Start drives uninitialized → initializing → running. Webhook registration
// is idempotent: the currently configured URL is queried first and setWebhook
// is called only when it differs from the desired target, so repeated
// startups do not redundantly call the registration API.
//
// A registration failure is logged as a fatal condition but does not block
// the running state: the service still serves health checks, and acceptance
// gating is the running state itself.
func (c *Coordinator) Start(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, c.State())
	}

	if err := c.registerWebhook(ctx); err != nil {
		c.l.Errorf(ctx, "lifecycle: webhook registration failed (health stays up, updates will not arrive): %v", err)
	}

	c.state.Store(int32(StateRunning))
	c.l.Infof(ctx, "lifecycle: running")
	return nil
}

// Acquire gates one dispatch and counts it as in-flight. Callers must pair
// it with Release.
func (c *Coordinator) Acquire() error {
	c.admitMu.Lock()
	defer c.admitMu.Unlock()

	if !c.Accepting() {
		return fmt.Errorf("lifecycle state is %s", c.State())
	}
	c.inflight.Add(1)
	return nil
}

// Release marks one in-flight dispatch as finished.
func (c *Coordinator) Release() {
	c.inflight.Done()
}

// Stop drives running → stopping → stopped. New events are rejected as soon
// as the stopping state is entered; in-flight dispatches are allowed to
// finish within the grace period.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.admitMu.Lock()
	swapped := c.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
	c.admitMu.Unlock()
	if !swapped {
		return fmt.Errorf("%w: stop from %s", ErrInvalidTransition, c.State())
	}
	c.l.Infof(ctx, "lifecycle: stopping, draining in-flight dispatches (grace %s)", c.grace)

	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(c.grace):
		c.l.Warnf(ctx, "lifecycle: grace period elapsed with dispatches still in flight")
	case <-ctx.Done():
		c.l.Warnf(ctx, "lifecycle: shutdown context cancelled while draining: %v", ctx.Err())
	}

	c.state.Store(int32(StateStopped))
	c.l.Infof(ctx, "lifecycle: stopped")
	return nil
}

// registerWebhook performs the idempotent check-then-set registration.
func (c *Coordinator) registerWebhook(ctx context.Context) error {
	if c.webhookURL == "" {
		return errors.New("no webhook URL configured")
	}

	info, err := c.registrar.GetWebhookInfo(ctx)
	if err != nil {
		// Query failed: attempt the set anyway, it is the call that matters.
		c.l.Warnf(ctx, "lifecycle: getWebhookInfo failed, attempting setWebhook: %v", err)
	} else if info.URL == c.webhookURL {
		c.l.Infof(ctx, "lifecycle: webhook already registered at %s, skipping setWebhook", c.webhookURL)
		return nil
	}

	if err := c.registrar.SetWebhook(ctx, c.webhookURL); err != nil {
		return err
	}
	c.l.Infof(ctx, "lifecycle: webhook registered at %s", c.webhookURL)
	return nil
}
