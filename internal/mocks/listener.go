package mocks

import (
	"sync"

	"github.com/NKavindya/device-mgt-core-sub000/internal/broker"
)

// RecordedPush is one payload delivered to a RecorderListener.
type RecordedPush struct {
	Payload   broker.Payload
	Usernames []string
}

// RecorderListener captures every push it receives, for assertions.
type RecorderListener struct {
	mu     sync.Mutex
	pushes []RecordedPush
}

func (l *RecorderListener) OnMessage(payload broker.Payload, usernames []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pushes = append(l.pushes, RecordedPush{Payload: payload, Usernames: usernames})
}

func (l *RecorderListener) Pushes() []RecordedPush {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]RecordedPush, len(l.pushes))
	copy(out, l.pushes)
	return out
}
