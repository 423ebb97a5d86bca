package session

import "sync"

// KeyedMutex serializes work per conversation id. Telegram normally delivers
// webhook updates for one chat sequentially, but redeliveries break that
// assumption; serializing here keeps the append-only history ordered.
//
// Entries are refcounted and removed on last unlock, so the map holds only
// conversations with a dispatch currently in flight.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int64]*keyedLock)}
}

// Lock acquires the mutex for the given conversation and returns its unlock
// function. Unrelated conversations never contend.
func (k *KeyedMutex) Lock(conversationID int64) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[conversationID]
	if !ok {
		l = &keyedLock{}
		k.locks[conversationID] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, conversationID)
		}
		k.mu.Unlock()
	}
}

// Len reports the number of conversations currently holding or waiting on
// a lock.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
