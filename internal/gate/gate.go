// Package gate decides whether a caller may see the admin data set. It is a
// small state machine driven by the current auth session and an on-demand
// role lookup; only AuthenticatedAdmin may fetch or bulk-delete.
package gate

import (
	"errors"
	"net/url"
	"sync"
)

type State string

const (
	StateAnonymous           State = "anonymous"
	StateAuthenticating      State = "authenticating"
	StateAuthenticatedNoRole State = "authenticated_no_role"
	StateAuthenticatedAdmin  State = "authenticated_admin"
	StateError               State = "error"
)

var (
	ErrNotSignedIn = errors.New("no active session")
	ErrNotAdmin    = errors.New("admin role required")
	ErrClosed      = errors.New("gate is closed")
)

// Session is the slice of an auth session the gate cares about.
type Session struct {
	ID     string
	UserID uint
	Email  string
}

// SessionSource exposes the auth collaborator: a one-shot session check and
// a change subscription. Subscribe returns the release func.
type SessionSource interface {
	CurrentSession() (*Session, error)
	Subscribe(fn func(*Session)) (unsubscribe func())
}

// Authenticator performs the password sign-in.
type Authenticator interface {
	SignInWithPassword(email, password string) (*Session, error)
}

// RoleChecker is the user_roles lookup, queried on demand per session change,
// never cached inside the session.
type RoleChecker interface {
	HasAdminRole(userID uint) (bool, error)
}

type Gate struct {
	mu      sync.Mutex
	source  SessionSource
	auth    Authenticator
	roles   RoleChecker
	state   State
	session *Session
	lastErr error
	release func()
	closed  bool
}

func New(source SessionSource, auth Authenticator, roles RoleChecker) *Gate {
	return &Gate{
		source: source,
		auth:   auth,
		roles:  roles,
		state:  StateAnonymous,
	}
}

// Start attaches the session-change listener and then runs the one-shot
// initial check. The order matters: a change landing during the initial
// check must not be lost, so the listener goes first. Both may fire;
// last applied wins.
func (g *Gate) Start() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.release == nil {
		g.release = g.source.Subscribe(g.onSessionChange)
	}
	g.mu.Unlock()

	sess, err := g.source.CurrentSession()
	if err != nil {
		g.fail(err)
		return err
	}
	g.apply(sess)
	return nil
}

// SubmitCredentials drives Anonymous -> Authenticating -> signed-in states.
// Invalid credentials fall back to Anonymous and the error is returned, not
// kept as gate state.
func (g *Gate) SubmitCredentials(email, password string) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.auth == nil {
		g.mu.Unlock()
		return errors.New("no authenticator configured")
	}
	g.state = StateAuthenticating
	g.mu.Unlock()

	sess, err := g.auth.SignInWithPassword(email, password)
	if err != nil {
		g.mu.Lock()
		if !g.closed {
			g.state = StateAnonymous
			g.session = nil
		}
		g.mu.Unlock()
		return err
	}
	g.apply(sess)
	return nil
}

func (g *Gate) onSessionChange(sess *Session) {
	g.apply(sess)
}

// apply moves the machine for a session value. A nil session ends in
// Anonymous from any state. A present session resolves the role lookup:
// admin membership promotes to AuthenticatedAdmin, absence stays in
// AuthenticatedNoRole, lookup failure lands in StateError.
func (g *Gate) apply(sess *Session) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	if sess == nil {
		g.state = StateAnonymous
		g.session = nil
		g.lastErr = nil
		g.mu.Unlock()
		return
	}
	g.session = sess
	g.state = StateAuthenticatedNoRole
	g.mu.Unlock()

	isAdmin, err := g.roles.HasAdminRole(sess.UserID)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.session == nil || g.session.ID != sess.ID {
		// superseded while the lookup was in flight
		return
	}
	if err != nil {
		g.state = StateError
		g.lastErr = err
		return
	}
	if isAdmin {
		g.state = StateAuthenticatedAdmin
	} else {
		g.state = StateAuthenticatedNoRole
	}
	g.lastErr = nil
}

func (g *Gate) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.state = StateError
	g.lastErr = err
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Session() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Err reports the failure that put the gate into StateError.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// RequireAdmin gates the data-fetch and bulk-delete operations.
func (g *Gate) RequireAdmin() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.state {
	case StateAuthenticatedAdmin:
		return nil
	case StateAnonymous, StateAuthenticating:
		return ErrNotSignedIn
	case StateError:
		if g.lastErr != nil {
			return g.lastErr
		}
		return ErrNotSignedIn
	default:
		return ErrNotAdmin
	}
}

// Close releases the session-change subscription. No state updates are
// applied after close.
func (g *Gate) Close() {
	g.mu.Lock()
	release := g.release
	g.release = nil
	g.closed = true
	g.mu.Unlock()

	if release != nil {
		release()
	}
}

// LoginRedirect builds the sign-in location carrying the originally
// requested path so the caller comes back to it after login.
func LoginRedirect(loginPath, target string) string {
	if target == "" {
		return loginPath
	}
	return loginPath + "?redirect=" + url.QueryEscape(target)
}
