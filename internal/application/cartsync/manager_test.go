package cartsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(ManagerConfig{
		Remote:     newFakeRemote(),
		Storage:    newFakeStorage(),
		SessionTTL: -1, // no background sweep in tests
	})
	t.Cleanup(m.Close)
	return m
}

// TestManager_SessionReuse verifies one engine instance per session key.
func TestManager_SessionReuse(t *testing.T) {
	m := newTestManager(t)

	a := m.Session("sess-a")
	b := m.Session("sess-b")
	assert.Same(t, a, m.Session("sess-a"))
	assert.NotSame(t, a, b)
}

// TestManager_SweepEvictsIdle verifies an idle session is dropped while
// an active one survives.
func TestManager_SweepEvictsIdle(t *testing.T) {
	m := newTestManager(t)
	m.ttl = time.Minute

	idle := m.Session("sess-idle")
	active := m.Session("sess-active")

	past := time.Now().Add(-2 * time.Minute)
	idle.mu.Lock()
	idle.lastUsed = past
	idle.mu.Unlock()

	m.sweep(time.Now())

	assert.NotSame(t, idle, m.Session("sess-idle"), "idle session was rebuilt after eviction")
	assert.Same(t, active, m.Session("sess-active"))
}

// TestManager_CloseIsIdempotent confirms a double Close does not panic.
func TestManager_CloseIsIdempotent(t *testing.T) {
	m := NewManager(ManagerConfig{
		Remote:     newFakeRemote(),
		Storage:    newFakeStorage(),
		SessionTTL: -1,
	})
	m.Close()
	require.NotPanics(t, m.Close)
}
