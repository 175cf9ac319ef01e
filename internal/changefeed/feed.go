// Package changefeed fans remote change signals out to subscribers. A signal
// carries no payload; subscribers re-read whatever they need.
package changefeed

import (
	"context"
	"sync"
)

// Source produces change signals until ctx is done.
type Source interface {
	Run(ctx context.Context, notify func()) error
}

type Subscription struct {
	id       uint64
	onChange func()
}

type Feed struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription
}

func New() *Feed {
	return &Feed{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers onChange and returns a handle for Unsubscribe.
func (f *Feed) Subscribe(onChange func()) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	sub := &Subscription{id: f.nextID, onChange: onChange}
	f.subs[sub.id] = sub
	return sub
}

// Unsubscribe is safe to call more than once and with nil.
func (f *Feed) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	f.mu.Lock()
	delete(f.subs, sub.id)
	f.mu.Unlock()
}

// Notify calls every subscriber. Callbacks run outside the lock so they may
// subscribe or unsubscribe.
func (f *Feed) Notify() {
	f.mu.RLock()
	callbacks := make([]func(), 0, len(f.subs))
	for _, sub := range f.subs {
		callbacks = append(callbacks, sub.onChange)
	}
	f.mu.RUnlock()

	for _, cb := range callbacks {
		cb()
	}
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Run drives the feed from src until ctx is done.
func (f *Feed) Run(ctx context.Context, src Source) error {
	return src.Run(ctx, f.Notify)
}
