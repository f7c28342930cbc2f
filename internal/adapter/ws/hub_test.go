package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func recvPayload(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.Send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func assertNoPayload(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload, ok := <-c.Send:
		if ok {
			t.Fatalf("unexpected payload: %s", payload)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DeliverRoutesByRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	alice := NewClient(hub, nil, "alice", []string{"user-alice"})
	bob := NewClient(hub, nil, "bob", []string{"user-bob"})
	admin := NewClient(hub, nil, "root", []string{"user-root", "admin-room"})

	hub.Register <- alice
	hub.Register <- bob
	hub.Register <- admin

	hub.Deliver("user-alice", []byte("for alice"))
	assert.Equal(t, "for alice", string(recvPayload(t, alice)))
	assertNoPayload(t, bob)

	hub.Deliver("admin-room", []byte("for admins"))
	assert.Equal(t, "for admins", string(recvPayload(t, admin)))
	assertNoPayload(t, alice)
	assertNoPayload(t, bob)
}

func TestHub_UnknownRoomIsDropped(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	alice := NewClient(hub, nil, "alice", []string{"user-alice"})
	hub.Register <- alice

	hub.Deliver("user-nobody", []byte("lost"))
	assertNoPayload(t, alice)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	alice := NewClient(hub, nil, "alice", []string{"user-alice"})
	hub.Register <- alice
	hub.Unregister <- alice

	select {
	case _, ok := <-alice.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// Messages to the departed user's room must not panic or block.
	hub.Deliver("user-alice", []byte("late"))
}

func TestHub_SlowConsumerIsDisconnected(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	slow := NewClient(hub, nil, "slow", []string{"user-slow"})
	hub.Register <- slow

	// Fill the client's buffer without draining it, then overflow it.
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("backlog")
	}
	hub.Deliver("user-slow", []byte("overflow"))

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.Send:
			if !ok {
				return // dropped as expected
			}
		case <-deadline:
			t.Fatal("slow consumer was never disconnected")
		}
	}
}
