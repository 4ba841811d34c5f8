package queue

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

var _ Notifier = (*Broadcaster)(nil)

// Broadcaster hands notifications to in-process subscribers, such as the
// websocket event stream. Slow subscribers miss notifications instead of
// blocking the writer.
type Broadcaster struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]chan Notification
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[int]chan Notification)}
}

// Subscribe registers a subscriber. The returned func unsubscribes and closes
// the channel.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Notification, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Notification, buffer)
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, id)
			close(ch)
		})
	}
}

func (b *Broadcaster) Notify(_ context.Context, n Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- n:
		default:
			logrus.Warnf("subscriber %d is lagging, dropped %s for %s", id, n.Kind, n.ModelID)
		}
	}

	return nil
}
