package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   nil,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()

	c1 := mockClient(hub, userID)
	c2 := mockClient(hub, userID)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := mockClient(hub, uuid.New())
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestPushReachesAllUserConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()

	c1 := mockClient(hub, userID)
	c2 := mockClient(hub, userID)
	hub.Register(c1)
	hub.Register(c2)

	eventID := uuid.New()
	hub.Push(userID, Event{
		Type:    "task_approved",
		ID:      eventID,
		Title:   "Task approved",
		Message: "Dishes was approved",
	})

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Event
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "task_approved" {
				t.Errorf("expected type task_approved, got %s", got.Type)
			}
			if got.ID != eventID {
				t.Errorf("expected id %s, got %s", eventID, got.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for event")
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestPushOnlyTargetsUser(t *testing.T) {
	hub := NewHub(zap.NewNop())

	alice := mockClient(hub, uuid.New())
	bob := mockClient(hub, uuid.New())
	hub.Register(alice)
	hub.Register(bob)

	hub.Push(alice.userID, Event{Type: "general", Title: "hi"})

	select {
	case <-alice.send:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for alice's event")
	}

	select {
	case <-bob.send:
		t.Fatal("bob must not receive alice's event")
	default:
	}

	hub.Unregister(alice)
	hub.Unregister(bob)
}

func TestPushUnknownUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	// Should not panic
	hub.Push(uuid.New(), Event{Type: "general"})
}

func TestPushFullBuffer(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()

	c := mockClient(hub, userID)
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Push(userID, Event{Type: "fill"})
	}

	// This should drop the event, not panic or block
	hub.Push(userID, Event{Type: "dropped"})

	count := 0
drain:
	for {
		select {
		case <-c.send:
			count++
		default:
			break drain
		}
	}
	if count != sendBufferSize {
		t.Errorf("expected %d events, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(zap.NewNop())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := uuid.New()
			c := mockClient(hub, userID)
			hub.Register(c)
			hub.Push(userID, Event{Type: "concurrent"})
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
