package session

import (
	"context"

	"go.uber.org/zap"
)

// Status is the state of a gate check for a protected view
type Status int

const (
	// StatusLoading means the session is still being hydrated from storage
	StatusLoading Status = iota
	// StatusAuthorized means the guarded content may be shown
	StatusAuthorized
	// StatusDenied means access is refused and the caller should redirect
	StatusDenied
)

// Redirect targets for denied checks
const (
	// RedirectLogin is used when no valid session exists
	RedirectLogin = "login"
	// RedirectDashboard is used when a session exists but lacks the required role
	RedirectDashboard = "dashboard"
)

// Decision is the outcome of a gate check
type Decision struct {
	Status   Status
	Redirect string
	Session  *Session
}

// Gate decides whether the locally held session permits access to a
// protected view. The check is advisory: it never calls the server, it
// only inspects the in-memory or persisted session.
type Gate struct {
	store   *Store
	logger  *zap.Logger
	session *Session // in-memory session, skips hydration when set
}

// NewGate creates a gate over the given session store
func NewGate(store *Store, logger *zap.Logger) *Gate {
	return &Gate{store: store, logger: logger}
}

// SetSession supplies an in-memory session, e.g. right after login
func (g *Gate) SetSession(sess *Session) {
	g.session = sess
}

// Check runs the access decision for a protected view. requiredRole may be
// empty, meaning any authenticated session is sufficient. The check reruns
// on every protected navigation.
func (g *Gate) Check(ctx context.Context, requiredRole string) Decision {
	sess := g.session
	if sess == nil {
		loaded, err := g.store.Load(ctx)
		if err != nil {
			g.logger.Warn("failed to load session", zap.Error(err))
			return Decision{Status: StatusDenied, Redirect: RedirectLogin}
		}
		sess = loaded
		g.session = loaded
	}

	if sess == nil || sess.Token == "" || sess.User == nil {
		return Decision{Status: StatusDenied, Redirect: RedirectLogin}
	}

	if requiredRole != "" && !sess.User.HasRole(requiredRole) {
		return Decision{Status: StatusDenied, Redirect: RedirectDashboard}
	}

	return Decision{Status: StatusAuthorized, Session: sess}
}

// Logout clears the persisted and in-memory session unconditionally and
// returns the login redirect target. Calling it with no active session is
// a no-op other than the redirect.
func (g *Gate) Logout(ctx context.Context) (string, error) {
	g.session = nil
	if err := g.store.Clear(ctx); err != nil {
		return RedirectLogin, err
	}
	return RedirectLogin, nil
}
