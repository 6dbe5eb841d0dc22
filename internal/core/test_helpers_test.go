package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sohbetapp/sohbet-server/internal/store"
)

// memStore is an in-memory MessageStore with a failure toggle.
type memStore struct {
	mu   sync.Mutex
	msgs []store.Message
	fail bool
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *memStore) Append(_ context.Context, author, text string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return 0, errStoreDown
	}
	id := int64(len(m.msgs) + 1)
	m.msgs = append(m.msgs, store.Message{ID: id, Author: author, Text: text, CreatedAt: at})
	return id, nil
}

func (m *memStore) Recent(_ context.Context, limit int) ([]store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	start := 0
	if len(m.msgs) > limit {
		start = len(m.msgs) - limit
	}
	out := make([]store.Message, len(m.msgs)-start)
	copy(out, m.msgs[start:])
	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

type storeDownError struct{}

func (storeDownError) Error() string { return "store unreachable" }

var errStoreDown = storeDownError{}

// startHub runs a hub with the given store and options for the duration of
// the test.
func startHub(t *testing.T, st store.MessageStore, opts Options) *Hub {
	t.Helper()

	hub := NewHub(st, nil, opts)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

// mustEvent waits for the next event of the given kind, discarding others.
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// ensureNoEvent fails the test if an event of the given kind arrives within
// the wait window. Other kinds are discarded.
func ensureNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, wait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}
