// Package events is the in-process publish/subscribe channel between the sync engine and its observers.
package events

import (
	"context"
	"sync"
)

// Event is anything published on the Bus.
type Event interface {
	EventName() string
}

// QueueChanged reports the local queue's shape after an enqueue, replay or sweep.
type QueueChanged struct {
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

func (QueueChanged) EventName() string { return "queue_changed" }

// SyncBatchCompleted reports the counts of one replay pass.
type SyncBatchCompleted struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

func (SyncBatchCompleted) EventName() string { return "sync_batch_completed" }

const defaultBuffer = 16

// Bus fans events out to subscribers. Publish never blocks: a subscriber that falls
// more than its buffer behind misses events.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: map[int]chan Event{}}
}

// Publish delivers e to every current subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber until ctx is done, then closes its channel.
func (b *Bus) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, defaultBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}
