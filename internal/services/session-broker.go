package services

import (
	"sync"
	"time"
)

// Session is one signed-in admin session, keyed by the token's jti.
type Session struct {
	ID        string
	UserID    uint
	Email     string
	ExpiresAt time.Time
}

// SessionBroker tracks live sessions and pushes changes to subscribers.
// Sign-in registers, sign-out (or expiry) revokes; subscribers get the new
// session value, or nil when the session ended. This is the process-wide
// handle every admin operation consults, created once at startup.
type SessionBroker struct {
	mu       sync.Mutex
	sessions map[string]Session
	subs     map[string]map[int]func(*Session)
	nextSub  int
}

func NewSessionBroker() *SessionBroker {
	return &SessionBroker{
		sessions: make(map[string]Session),
		subs:     make(map[string]map[int]func(*Session)),
	}
}

func (b *SessionBroker) Register(s Session) {
	b.mu.Lock()
	b.sessions[s.ID] = s
	listeners := b.snapshotSubs(s.ID)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(&s)
	}
}

// Current returns the live session, or nil when it was revoked or expired.
// Expiry is detected lazily here and announced to subscribers the same way a
// revoke is, so session-scoped state (dashboards) is released.
func (b *SessionBroker) Current(sessionID string) *Session {
	b.mu.Lock()
	s, ok := b.sessions[sessionID]
	expired := ok && !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
	var listeners []func(*Session)
	if expired {
		delete(b.sessions, sessionID)
		listeners = b.snapshotSubs(sessionID)
	}
	b.mu.Unlock()

	if expired {
		for _, fn := range listeners {
			fn(nil)
		}
		return nil
	}
	if !ok {
		return nil
	}
	return &s
}

func (b *SessionBroker) Revoke(sessionID string) {
	b.mu.Lock()
	_, existed := b.sessions[sessionID]
	delete(b.sessions, sessionID)
	listeners := b.snapshotSubs(sessionID)
	b.mu.Unlock()

	if !existed {
		return
	}
	for _, fn := range listeners {
		fn(nil)
	}
}

// Subscribe attaches a listener for one session. The returned func releases
// it; releasing twice is harmless.
func (b *SessionBroker) Subscribe(sessionID string, fn func(*Session)) func() {
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[int]func(*Session))
	}
	id := b.nextSub
	b.nextSub++
	b.subs[sessionID][id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if m, ok := b.subs[sessionID]; ok {
			delete(m, id)
			if len(m) == 0 {
				delete(b.subs, sessionID)
			}
		}
	}
}

// snapshotSubs must be called with b.mu held.
func (b *SessionBroker) snapshotSubs(sessionID string) []func(*Session) {
	m := b.subs[sessionID]
	out := make([]func(*Session), 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}
