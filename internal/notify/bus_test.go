package notify

import (
	"testing"
	"time"

	"github.com/spec-kit/lms-console/internal/domain"
)

func TestPublishWithoutConsumerIsDropped(t *testing.T) {
	bus := NewBus(time.Second)

	id := bus.Publish(domain.NotifyInfo, "t", "m", 0)
	if id == "" {
		t.Error("Publish must return an id even when dropped")
	}

	bus.Attach()
	if got := len(bus.Stack()); got != 0 {
		t.Errorf("stack = %d notifications, want 0 (no replay of pre-attach publishes)", got)
	}
}

func TestStackKeepsPublishOrder(t *testing.T) {
	bus := NewBus(time.Second)
	bus.Attach()

	first := bus.Publish(domain.NotifySuccess, "first", "", 0)
	second := bus.Publish(domain.NotifyError, "second", "", 0)

	stack := bus.Stack()
	if len(stack) != 2 {
		t.Fatalf("stack = %d, want 2", len(stack))
	}
	if stack[0].ID != first || stack[1].ID != second {
		t.Error("stack not in publish order")
	}
}

func TestAutoExpiryRemovesNotification(t *testing.T) {
	bus := NewBus(time.Second)
	bus.Attach()

	bus.Publish(domain.NotifyInfo, "ephemeral", "", 30*time.Millisecond)
	if len(bus.Stack()) != 1 {
		t.Fatal("notification not visible")
	}

	deadline := time.Now().Add(time.Second)
	for len(bus.Stack()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("notification did not expire")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestExpiryTimersAreIndependent(t *testing.T) {
	bus := NewBus(time.Second)
	bus.Attach()

	bus.Publish(domain.NotifyInfo, "short", "", 30*time.Millisecond)
	sticky := bus.Publish(domain.NotifyInfo, "sticky", "", 0)

	deadline := time.Now().Add(time.Second)
	for {
		stack := bus.Stack()
		if len(stack) == 1 && stack[0].ID == sticky {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected only sticky to remain, have %d", len(stack))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestManualDismissCancelsExpiry(t *testing.T) {
	bus := NewBus(time.Second)
	bus.Attach()

	id := bus.Publish(domain.NotifyWarning, "w", "", 40*time.Millisecond)
	keeper := bus.Publish(domain.NotifyInfo, "keeper", "", 0)

	bus.Dismiss(id)
	if len(bus.Stack()) != 1 {
		t.Fatal("dismissal did not remove the notification")
	}

	// Let the original expiry window pass: the cancelled timer must not
	// fire a second removal or touch the keeper.
	time.Sleep(80 * time.Millisecond)
	stack := bus.Stack()
	if len(stack) != 1 || stack[0].ID != keeper {
		t.Errorf("stack after expiry window = %+v, want only keeper", stack)
	}
}

func TestDismissUnknownIDIsNoop(t *testing.T) {
	bus := NewBus(time.Second)
	bus.Attach()
	bus.Publish(domain.NotifyInfo, "keep", "", 0)

	bus.Dismiss("no-such-id")
	if len(bus.Stack()) != 1 {
		t.Error("dismissing an unknown id mutated the stack")
	}
}

func TestDefaultDurationApplies(t *testing.T) {
	bus := NewBus(25 * time.Millisecond)
	bus.Attach()

	bus.Publish(domain.NotifyInfo, "defaulted", "", -1)

	deadline := time.Now().Add(time.Second)
	for len(bus.Stack()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("default duration was not applied")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
