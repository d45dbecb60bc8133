// Package broker is the in-process publish/subscribe path that fans
// committed notification deltas out to per-user client streams.
package broker

import "sync"

// Payload is one push message. Message is empty for read-state-only updates.
type Payload struct {
	Message     string `json:"message,omitempty"`
	UnreadCount int64  `json:"unreadCount"`
}

// Listener receives every published payload together with the user names it
// targets; listeners with no interest in those users filter internally.
type Listener interface {
	OnMessage(payload Payload, usernames []string)
}

// Broker delivers payloads to registered listeners. Registration keeps a
// copy-on-write snapshot so listeners can be added and removed while a push
// is iterating, without locking the delivery path.
type Broker struct {
	mu        sync.Mutex
	listeners []Listener
}

func New() *Broker {
	return &Broker{}
}

func (b *Broker) Register(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := make([]Listener, len(b.listeners), len(b.listeners)+1)
	copy(next, b.listeners)
	b.listeners = append(next, l)
}

func (b *Broker) Deregister(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := make([]Listener, 0, len(b.listeners))
	for _, existing := range b.listeners {
		if existing != l {
			next = append(next, existing)
		}
	}
	b.listeners = next
}

// Publish fans payload out to every registered listener. Delivery is
// best-effort and unordered across listeners; callers invoke it strictly
// after their transaction has committed.
func (b *Broker) Publish(payload Payload, usernames []string) {
	if len(usernames) == 0 {
		return
	}

	b.mu.Lock()
	snapshot := b.listeners
	b.mu.Unlock()

	for _, l := range snapshot {
		l.OnMessage(payload, usernames)
	}
}
