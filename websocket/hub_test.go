package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePresenceStore records the presence writes the hub performs.
type fakePresenceStore struct {
	mu      sync.Mutex
	changes []presenceChange
}

type presenceChange struct {
	userID uint
	online bool
}

func (f *fakePresenceStore) SetOnlineStatus(userID uint, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, presenceChange{userID: userID, online: online})
	return nil
}

func (f *fakePresenceStore) snapshot() []presenceChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]presenceChange, len(f.changes))
	copy(out, f.changes)
	return out
}

func readFrame(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case frame, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return string(frame)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return ""
	}
}

func TestHubBroadcastsPresenceTransitions(t *testing.T) {
	presence := &fakePresenceStore{}
	hub := NewHub(presence)
	go hub.Run()

	alice := newClient(hub, nil, 1)
	hub.register <- alice

	// the registering session receives its own login event
	assert.Equal(t, `{"event":"user.1.login"}`, readFrame(t, alice))

	bob := newClient(hub, nil, 2)
	hub.register <- bob

	assert.Equal(t, `{"event":"user.2.login"}`, readFrame(t, alice))
	assert.Equal(t, `{"event":"user.2.login"}`, readFrame(t, bob))

	hub.unregister <- bob
	assert.Equal(t, `{"event":"user.2.logout"}`, readFrame(t, alice))

	require.Eventually(t, func() bool {
		return len(presence.snapshot()) == 3
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []presenceChange{
		{userID: 1, online: true},
		{userID: 2, online: true},
		{userID: 2, online: false},
	}, presence.snapshot())
}

func TestHubOrdersEventsPerUser(t *testing.T) {
	presence := &fakePresenceStore{}
	hub := NewHub(presence)
	go hub.Run()

	observer := newClient(hub, nil, 99)
	hub.register <- observer
	readFrame(t, observer) // own login

	// a flaky connection oscillates presence immediately, in causal order
	for i := 0; i < 3; i++ {
		session := newClient(hub, nil, 7)
		hub.register <- session
		hub.unregister <- session

		assert.Equal(t, `{"event":"user.7.login"}`, readFrame(t, observer))
		assert.Equal(t, `{"event":"user.7.logout"}`, readFrame(t, observer))
	}
}

func TestHubDropsUnregisteredClient(t *testing.T) {
	presence := &fakePresenceStore{}
	hub := NewHub(presence)
	go hub.Run()

	session := newClient(hub, nil, 1)
	hub.register <- session
	readFrame(t, session)

	hub.unregister <- session

	select {
	case _, ok := <-session.send:
		assert.False(t, ok, "send channel is closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubBroadcastFansOut(t *testing.T) {
	presence := &fakePresenceStore{}
	hub := NewHub(presence)
	go hub.Run()

	a := newClient(hub, nil, 1)
	b := newClient(hub, nil, 2)
	hub.register <- a
	readFrame(t, a)
	hub.register <- b
	readFrame(t, a)
	readFrame(t, b)

	hub.Broadcast([]byte(`{"event":"custom"}`))
	assert.Equal(t, `{"event":"custom"}`, readFrame(t, a))
	assert.Equal(t, `{"event":"custom"}`, readFrame(t, b))
}
