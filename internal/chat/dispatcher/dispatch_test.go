package dispatcher_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"telegram-chat-gateway/internal/chat"
	"telegram-chat-gateway/internal/chat/dispatcher"
	"telegram-chat-gateway/internal/chat/handlers"
	"telegram-chat-gateway/internal/model"
	"telegram-chat-gateway/internal/router"
	"telegram-chat-gateway/internal/session"
	"telegram-chat-gateway/pkg/completion"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Info(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Warn(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Error(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...interface{})                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {}
func (m *mockLogger) Panic(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...interface{})  {}

// captureLogger records formatted warnings for assertions.
type captureLogger struct {
	mockLogger
	mu    sync.Mutex
	warns []string
}

func (c *captureLogger) Warnf(ctx context.Context, format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warns = append(c.warns, fmt.Sprintf(format, args...))
}

func (c *captureLogger) warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.warns))
	copy(out, c.warns)
	return out
}

type mockSender struct {
	mu      sync.Mutex
	sendErr error
	sent    []string
}

func (m *mockSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, text)
	return nil
}

func (m *mockSender) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

type mockGate struct {
	acquireErr error
	released   int
}

func (m *mockGate) Acquire() error { return m.acquireErr }
func (m *mockGate) Release()       { m.released++ }

type mockCompletion struct {
	reply string
	err   error
}

func (m *mockCompletion) Complete(ctx context.Context, messages []completion.Message, opts completion.Options) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// ── Test Helpers ───────────────────────────────────────────────────────────

func newStore(t *testing.T) *session.InMemoryStore {
	t.Helper()
	s, err := session.New(session.Config{MaxTurns: 10, SystemPrompt: "test prompt"})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	return s
}

func newDispatcher(t *testing.T, store session.Store, client completion.Client, sender chat.ReplySender, gate dispatcher.Gate) *dispatcher.Dispatcher {
	t.Helper()
	rt := router.New()
	rt.Command("/start", handlers.NewStart())
	rt.Fallback(handlers.NewChat(store, client, completion.Options{}))
	return dispatcher.New(&mockLogger{}, rt, store, sender, gate)
}

func textEvent(text string) chat.Event {
	return chat.Event{UpdateID: 1, ConversationID: 123, Text: text}
}

// ── Tests ──────────────────────────────────────────────────────────────────

func TestDispatch_Delivered(t *testing.T) {
	store := newStore(t)
	sender := &mockSender{}
	d := newDispatcher(t, store, &mockCompletion{reply: "pong"}, sender, &mockGate{})

	outcome := d.Dispatch(context.Background(), textEvent("ping"))
	if outcome != chat.OutcomeDelivered {
		t.Fatalf("expected delivered, got %s", outcome)
	}
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0] != "pong" {
		t.Errorf("expected reply %q to be sent, got %v", "pong", msgs)
	}
	// System turn + user turn + assistant turn.
	if got := store.Len(123); got != 3 {
		t.Errorf("expected 3 turns after a full exchange, got %d", got)
	}
}

func TestDispatch_CommandCreatesConversation(t *testing.T) {
	store := newStore(t)
	sender := &mockSender{}
	d := newDispatcher(t, store, &mockCompletion{reply: "unused"}, sender, &mockGate{})

	outcome := d.Dispatch(context.Background(), textEvent("/start"))
	if outcome != chat.OutcomeDelivered {
		t.Fatalf("expected delivered, got %s", outcome)
	}
	// The command reply never goes through the model, but the conversation
	// itself now exists with its pinned system turn.
	if got := store.Len(123); got != 1 {
		t.Errorf("expected conversation created with one system turn, Len=%d", got)
	}
}

func TestDispatch_SuppressedNonText(t *testing.T) {
	store := newStore(t)
	sender := &mockSender{}
	d := newDispatcher(t, store, &mockCompletion{reply: "pong"}, sender, &mockGate{})

	outcome := d.Dispatch(context.Background(), textEvent(""))
	if outcome != chat.OutcomeSuppressed {
		t.Fatalf("expected suppressed, got %s", outcome)
	}
	if len(sender.messages()) != 0 {
		t.Errorf("expected no message sent, got %v", sender.messages())
	}
	if got := store.Len(123); got != 0 {
		t.Errorf("suppressed event must not touch history, Len=%d", got)
	}
}

func TestDispatch_CompletionFailureRevertsAndApologizes(t *testing.T) {
	store := newStore(t)
	sender := &mockSender{}
	client := &mockCompletion{err: &completion.Error{
		Kind:     completion.KindTransient,
		Provider: "openai",
		Err:      errors.New("upstream 503"),
	}}
	d := newDispatcher(t, store, client, sender, &mockGate{})

	outcome := d.Dispatch(context.Background(), textEvent("hello model"))
	if outcome != chat.OutcomeDelivered {
		t.Fatalf("expected delivered (apology), got %s", outcome)
	}
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0] != dispatcher.ApologyText {
		t.Errorf("expected apology reply, got %v", msgs)
	}
	// The appended user turn must be reverted so the next exchange sees
	// clean history.
	if got := store.Len(123); got != 1 {
		t.Errorf("expected user turn reverted after failure, Len=%d", got)
	}
}

func TestDispatch_FailureLogCarriesUserScope(t *testing.T) {
	store := newStore(t)
	client := &mockCompletion{err: &completion.Error{
		Kind:     completion.KindTransient,
		Provider: "openai",
		Err:      errors.New("upstream 503"),
	}}
	l := &captureLogger{}

	rt := router.New()
	rt.Fallback(handlers.NewChat(store, client, completion.Options{}))
	d := dispatcher.New(l, rt, store, &mockSender{}, &mockGate{})

	ev := textEvent("hello model")
	ev.Scope = model.TelegramScope(456, "tester")
	d.Dispatch(context.Background(), ev)

	warns := l.warnings()
	if len(warns) == 0 {
		t.Fatal("expected a warning for the completion failure")
	}
	found := false
	for _, w := range warns {
		if strings.Contains(w, "telegram_456") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected failure log to identify the user scope, got %v", warns)
	}
}

func TestDispatch_SendFailure(t *testing.T) {
	store := newStore(t)
	sender := &mockSender{sendErr: errors.New("telegram unreachable")}
	d := newDispatcher(t, store, &mockCompletion{reply: "pong"}, sender, &mockGate{})

	outcome := d.Dispatch(context.Background(), textEvent("ping"))
	if outcome != chat.OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
}

func TestDispatch_SerializesSameConversation(t *testing.T) {
	store := newStore(t)
	sender := &mockSender{}
	d := newDispatcher(t, store, &mockCompletion{reply: "ok"}, sender, &mockGate{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), textEvent("msg"))
		}()
	}
	wg.Wait()

	if got := len(sender.messages()); got != 20 {
		t.Errorf("expected 20 replies, got %d", got)
	}
}

func TestSubmit_RejectedWhenGateClosed(t *testing.T) {
	store := newStore(t)
	gate := &mockGate{acquireErr: errors.New("not running")}
	d := newDispatcher(t, store, &mockCompletion{reply: "pong"}, &mockSender{}, gate)

	err := d.Submit(textEvent("ping"))
	if !errors.Is(err, chat.ErrNotAccepting) {
		t.Errorf("expected ErrNotAccepting, got %v", err)
	}
	if gate.released != 0 {
		t.Errorf("rejected submit must not release the gate, released=%d", gate.released)
	}
}

func TestSubmit_ProcessesAsync(t *testing.T) {
	store := newStore(t)
	sender := &mockSender{}
	d := newDispatcher(t, store, &mockCompletion{reply: "pong"}, sender, &mockGate{})

	if err := d.Submit(textEvent("ping")); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && len(sender.messages()) == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0] != "pong" {
		t.Errorf("expected async dispatch to send the reply, got %v", msgs)
	}
}
