package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGate_Check_NoSession(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store, zap.NewNop())

	decision := gate.Check(context.Background(), "")

	assert.Equal(t, StatusDenied, decision.Status)
	assert.Equal(t, RedirectLogin, decision.Redirect)
	assert.Nil(t, decision.Session)
}

func TestGate_Check_AuthorizedWithoutRole(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "signed-token", testUser()))

	gate := NewGate(store, zap.NewNop())
	decision := gate.Check(ctx, "")

	assert.Equal(t, StatusAuthorized, decision.Status)
	require.NotNil(t, decision.Session)
	assert.Equal(t, "signed-token", decision.Session.Token)
}

func TestGate_Check_RequiredRole(t *testing.T) {
	tests := []struct {
		name             string
		requiredRole     string
		expectedStatus   Status
		expectedRedirect string
	}{
		{
			name:           "role present",
			requiredRole:   "moderator",
			expectedStatus: StatusAuthorized,
		},
		{
			name:             "role missing redirects to dashboard",
			requiredRole:     "admin",
			expectedStatus:   StatusDenied,
			expectedRedirect: RedirectDashboard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, "signed-token", testUser()))

			gate := NewGate(store, zap.NewNop())
			decision := gate.Check(ctx, tt.requiredRole)

			assert.Equal(t, tt.expectedStatus, decision.Status)
			assert.Equal(t, tt.expectedRedirect, decision.Redirect)
		})
	}
}

func TestGate_Check_InMemorySessionSkipsStore(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store, zap.NewNop())

	// Nothing persisted; only the in-memory session set after login
	gate.SetSession(&Session{Token: "signed-token", User: testUser()})

	decision := gate.Check(context.Background(), "user")

	assert.Equal(t, StatusAuthorized, decision.Status)
}

func TestGate_Check_RerunsOnEveryNavigation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "signed-token", testUser()))

	gate := NewGate(store, zap.NewNop())

	first := gate.Check(ctx, "user")
	assert.Equal(t, StatusAuthorized, first.Status)

	// A later check against a stricter role is denied even though the
	// earlier one passed
	second := gate.Check(ctx, "admin")
	assert.Equal(t, StatusDenied, second.Status)
	assert.Equal(t, RedirectDashboard, second.Redirect)
}

func TestGate_Logout(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "signed-token", testUser()))

	gate := NewGate(store, zap.NewNop())
	require.Equal(t, StatusAuthorized, gate.Check(ctx, "").Status)

	redirect, err := gate.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, RedirectLogin, redirect)

	// Both the in-memory and the persisted session are gone
	decision := gate.Check(ctx, "")
	assert.Equal(t, StatusDenied, decision.Status)
	assert.Equal(t, RedirectLogin, decision.Redirect)

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestGate_Logout_WithoutSession(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store, zap.NewNop())

	redirect, err := gate.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RedirectLogin, redirect)
}

func TestGate_Check_CorruptSessionRedirectsToLogin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.set(ctx, keyToken, "signed-token"))
	require.NoError(t, store.set(ctx, keyUser, "{not valid json"))

	gate := NewGate(store, zap.NewNop())
	decision := gate.Check(ctx, "")

	assert.Equal(t, StatusDenied, decision.Status)
	assert.Equal(t, RedirectLogin, decision.Redirect)
}
