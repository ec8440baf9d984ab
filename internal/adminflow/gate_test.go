package adminflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoleStore implements RoleStore with an overridable function.
type mockRoleStore struct {
	isAdminFn func(ctx context.Context, accountID string) (bool, error)
}

func (m *mockRoleStore) IsAdmin(ctx context.Context, accountID string) (bool, error) {
	return m.isAdminFn(ctx, accountID)
}

func adminStore(admin bool) *mockRoleStore {
	return &mockRoleStore{
		isAdminFn: func(ctx context.Context, accountID string) (bool, error) {
			return admin, nil
		},
	}
}

func TestGate_StartsLocked(t *testing.T) {
	assert.Equal(t, GateLocked, NewGate().State())
}

func TestGate_UnlockFromLocked(t *testing.T) {
	g := NewGate()

	require.NoError(t, g.Unlock())
	assert.Equal(t, GateUnauthenticated, g.State())
}

func TestGate_UnlockTwiceRejected(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.Unlock())

	err := g.Unlock()
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "unlock", te.Event)
}

func TestGate_AuthenticateRequiresOpenGate(t *testing.T) {
	g := NewGate()

	err := g.Authenticate(context.Background(), "acc-1", adminStore(true))
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, GateLocked, g.State(), "the password gate cannot be skipped")
}

func TestGate_AuthenticateResolvesRole(t *testing.T) {
	tests := []struct {
		name  string
		roles *mockRoleStore
		want  GateState
	}{
		{
			name:  "admin role lands authorized",
			roles: adminStore(true),
			want:  GateAuthorized,
		},
		{
			name:  "no role row lands unauthorized even with a valid session",
			roles: adminStore(false),
			want:  GateUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate()
			require.NoError(t, g.Unlock())

			err := g.Authenticate(context.Background(), "acc-1", tt.roles)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.State())
			assert.Equal(t, "acc-1", g.AccountID())
		})
	}
}

func TestGate_RoleLookupFailureFailsClosed(t *testing.T) {
	lookupErr := errors.New("connection refused")
	roles := &mockRoleStore{
		isAdminFn: func(ctx context.Context, accountID string) (bool, error) {
			return true, lookupErr
		},
	}

	g := NewGate()
	require.NoError(t, g.Unlock())

	err := g.Authenticate(context.Background(), "acc-1", roles)
	assert.ErrorIs(t, err, lookupErr, "the lookup error is surfaced for logging")
	assert.Equal(t, GateUnauthorized, g.State(), "a failed lookup never grants access")
}

func TestGate_SignOutKeepsGateOpen(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.Unlock())
	require.NoError(t, g.Authenticate(context.Background(), "acc-1", adminStore(true)))

	require.NoError(t, g.SignOut())
	assert.Equal(t, GateUnauthenticated, g.State(), "sign-out returns to the login form, not the password gate")
	assert.Empty(t, g.AccountID())
}

func TestGate_SignOutFromUnauthorized(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.Unlock())
	require.NoError(t, g.Authenticate(context.Background(), "acc-1", adminStore(false)))

	require.NoError(t, g.SignOut())
	assert.Equal(t, GateUnauthenticated, g.State())
}

func TestGate_SignOutWithoutSessionRejected(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.Unlock())

	var te *TransitionError
	assert.ErrorAs(t, g.SignOut(), &te)
}

func TestResolveGate(t *testing.T) {
	ctx := context.Background()

	state, err := ResolveGate(ctx, false, "", adminStore(true))
	require.NoError(t, err)
	assert.Equal(t, GateLocked, state)

	state, err = ResolveGate(ctx, true, "", adminStore(true))
	require.NoError(t, err)
	assert.Equal(t, GateUnauthenticated, state)

	state, err = ResolveGate(ctx, true, "acc-1", adminStore(false))
	require.NoError(t, err)
	assert.Equal(t, GateUnauthorized, state)

	state, err = ResolveGate(ctx, true, "acc-1", adminStore(true))
	require.NoError(t, err)
	assert.Equal(t, GateAuthorized, state)
}

func TestResolveGate_LockedSkipsRoleLookup(t *testing.T) {
	roles := &mockRoleStore{
		isAdminFn: func(ctx context.Context, accountID string) (bool, error) {
			t.Error("role lookup must not run while the gate is locked")
			return true, nil
		},
	}

	state, err := ResolveGate(context.Background(), false, "acc-1", roles)
	require.NoError(t, err)
	assert.Equal(t, GateLocked, state, "a session without the access password stays locked")
}

func TestResolveGate_LookupFailureFailsClosed(t *testing.T) {
	roles := &mockRoleStore{
		isAdminFn: func(ctx context.Context, accountID string) (bool, error) {
			return false, errors.New("timeout")
		},
	}

	state, err := ResolveGate(context.Background(), true, "acc-1", roles)
	assert.Error(t, err)
	assert.Equal(t, GateUnauthorized, state)
}
