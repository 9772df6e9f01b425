// internal/application/cartsync/manager.go
package cartsync

import (
	"log"
	"sync"
	"time"

	cartdom "santimill/internal/domain/cart"
)

// DefaultSessionTTL is the inactivity window after which an idle session
// engine is evicted. The durable copies (guest slot, remote store)
// survive eviction; a returning session rebuilds its cache from them.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Manager owns the live Session instances, one per storefront session
// key, and sweeps idle ones.
type Manager struct {
	remote  cartdom.RemoteStore
	storage GuestStorage

	remoteTimeout time.Duration
	ttl           time.Duration

	mu       sync.Mutex
	sessions map[string]*Session

	stop chan struct{}
	done chan struct{}
}

type ManagerConfig struct {
	Remote  cartdom.RemoteStore
	Storage GuestStorage

	// RemoteTimeout defaults to DefaultRemoteTimeout.
	RemoteTimeout time.Duration

	// SessionTTL defaults to DefaultSessionTTL. Sweeping is disabled
	// when negative.
	SessionTTL time.Duration
}

func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		remote:        cfg.Remote,
		storage:       cfg.Storage,
		remoteTimeout: cfg.RemoteTimeout,
		ttl:           cfg.SessionTTL,
		sessions:      map[string]*Session{},
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	if m.remoteTimeout <= 0 {
		m.remoteTimeout = DefaultRemoteTimeout
	}
	if m.ttl == 0 {
		m.ttl = DefaultSessionTTL
	}

	if m.ttl > 0 {
		go m.sweepLoop()
	} else {
		close(m.done)
	}
	return m
}

// Session returns the engine for the session key, creating it on first
// use.
func (m *Manager) Session(key string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		s.touch()
		return s
	}

	s := NewSession(key, m.remote, m.storage)
	s.remoteTimeout = m.remoteTimeout
	m.sessions[key] = s
	return s
}

// Close stops the sweep loop.
func (m *Manager) Close() {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	<-m.done
}

func (m *Manager) sweepLoop() {
	defer close(m.done)

	ticker := time.NewTicker(m.ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.ttl {
			delete(m.sessions, key)
			log.Printf("[cart_manager] evicted idle session=%s", key)
		}
	}
}
