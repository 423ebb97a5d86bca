package session_test

import (
	"sync"
	"testing"

	"telegram-chat-gateway/internal/session"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	km := session.NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock(42)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 serialized increments, got %d", counter)
	}
}

func TestKeyedMutex_PrunesIdleEntries(t *testing.T) {
	km := session.NewKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			unlock := km.Lock(id)
			unlock()
		}(int64(i % 7))
	}
	wg.Wait()

	// Every entry is released; the map must not retain one per id ever seen.
	if got := km.Len(); got != 0 {
		t.Errorf("expected idle lock map pruned to 0 entries, got %d", got)
	}
}

func TestKeyedMutex_LenTracksHeldLocks(t *testing.T) {
	km := session.NewKeyedMutex()

	unlock := km.Lock(1)
	if got := km.Len(); got != 1 {
		t.Errorf("expected 1 held entry, got %d", got)
	}
	unlock()
	if got := km.Len(); got != 0 {
		t.Errorf("expected entry removed on unlock, got %d", got)
	}
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := session.NewKeyedMutex()

	// Hold key 1; key 2 must still be acquirable.
	unlock1 := km.Lock(1)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := km.Lock(2)
		unlock2()
		close(done)
	}()

	<-done
}
