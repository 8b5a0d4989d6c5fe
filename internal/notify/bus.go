package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lms-console/internal/domain"
)

// Bus is the process-wide notification channel. Any component may publish;
// exactly one consumer (the on-screen stack) is attached at a time. A publish
// with no consumer attached is dropped, not queued.
type Bus struct {
	mu              sync.Mutex
	attached        bool
	stack           []domain.Notification
	timers          map[string]*time.Timer
	defaultDuration time.Duration
}

// NewBus builds the channel. defaultDuration applies when Publish is called
// with a negative duration; zero means sticky until dismissed.
func NewBus(defaultDuration time.Duration) *Bus {
	return &Bus{
		timers:          make(map[string]*time.Timer),
		defaultDuration: defaultDuration,
	}
}

// Attach marks the consumer as mounted. Publishes before the first Attach
// are dropped by policy.
func (b *Bus) Attach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = true
}

// Detach unmounts the consumer and clears the visible stack, cancelling all
// pending expiry timers.
func (b *Bus) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = false
	for id, timer := range b.timers {
		timer.Stop()
		delete(b.timers, id)
	}
	b.stack = nil
}

// Publish enqueues a notification and returns its id. duration < 0 selects
// the configured default; duration == 0 makes it sticky. Each notification
// schedules its own removal timer, independent of the others.
func (b *Bus) Publish(kind domain.NotificationKind, title, message string, duration time.Duration) string {
	if duration < 0 {
		duration = b.defaultDuration
	}

	n := domain.Notification{
		ID:         uuid.NewString(),
		Kind:       kind,
		Title:      title,
		Message:    message,
		DurationMs: int(duration / time.Millisecond),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return n.ID
	}

	b.stack = append(b.stack, n)
	if duration > 0 {
		id := n.ID
		b.timers[id] = time.AfterFunc(duration, func() {
			b.remove(id)
		})
	}
	return n.ID
}

// Dismiss removes a notification ahead of its expiry and cancels its timer,
// so a later firing cannot remove a second time.
func (b *Bus) Dismiss(id string) {
	b.remove(id)
}

// Stack returns the visible notifications in publish order.
func (b *Bus) Stack() []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Notification, len(b.stack))
	copy(out, b.stack)
	return out
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if timer, ok := b.timers[id]; ok {
		timer.Stop()
		delete(b.timers, id)
	}
	for i, n := range b.stack {
		if n.ID == id {
			b.stack = append(b.stack[:i], b.stack[i+1:]...)
			return
		}
	}
}
