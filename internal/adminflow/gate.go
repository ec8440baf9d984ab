// Package adminflow models the admin panel's access control and the product
// add/edit wizard as explicit state machines. Every transition is guarded;
// an event fired from the wrong state returns a TransitionError instead of
// being silently ignored, so handlers cannot skip a step by crafting a URL.
package adminflow

import (
	"context"
	"fmt"
)

// GateState is the admin panel access level.
type GateState int

const (
	// GateLocked means the access password has not been accepted yet.
	GateLocked GateState = iota

	// GateUnauthenticated means the password gate is open but no account
	// session exists.
	GateUnauthenticated

	// GateUnauthorized means a session exists but the account holds no
	// admin role.
	GateUnauthorized

	// GateAuthorized grants full product management access.
	GateAuthorized
)

func (s GateState) String() string {
	switch s {
	case GateLocked:
		return "locked"
	case GateUnauthenticated:
		return "unauthenticated"
	case GateUnauthorized:
		return "unauthorized"
	case GateAuthorized:
		return "authorized"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// RoleStore answers whether an account holds the admin role. A missing
// role row is a normal "not admin" answer, not an error.
type RoleStore interface {
	IsAdmin(ctx context.Context, accountID string) (bool, error)
}

// TransitionError reports an event fired from a state that does not
// permit it.
type TransitionError struct {
	From  string
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Event, e.From)
}

// Gate is the access state machine for one admin browsing session.
// The zero value is not usable; construct with NewGate.
type Gate struct {
	state     GateState
	accountID string
}

// NewGate starts a gate in the Locked state.
func NewGate() *Gate {
	return &Gate{state: GateLocked}
}

// State returns the current access level.
func (g *Gate) State() GateState {
	return g.state
}

// Unlock records an accepted access password. Only valid from Locked;
// the caller is responsible for checking the password first.
func (g *Gate) Unlock() error {
	if g.state != GateLocked {
		return &TransitionError{From: g.state.String(), Event: "unlock"}
	}
	g.state = GateUnauthenticated
	return nil
}

// Authenticate records a signed-in account and resolves its role. The gate
// lands in Authorized only when the role lookup positively confirms the
// admin role; a lookup failure is treated as "not admin" (fail closed) and
// the lookup error is returned for logging alongside the completed
// transition.
func (g *Gate) Authenticate(ctx context.Context, accountID string, roles RoleStore) error {
	if g.state != GateUnauthenticated {
		return &TransitionError{From: g.state.String(), Event: "authenticate"}
	}

	g.accountID = accountID

	isAdmin, err := roles.IsAdmin(ctx, accountID)
	if err != nil || !isAdmin {
		g.state = GateUnauthorized
		return err
	}
	g.state = GateAuthorized
	return nil
}

// SignOut ends the account session. The password gate stays open, so the
// machine returns to Unauthenticated rather than Locked.
func (g *Gate) SignOut() error {
	if g.state != GateUnauthorized && g.state != GateAuthorized {
		return &TransitionError{From: g.state.String(), Event: "sign out"}
	}
	g.state = GateUnauthenticated
	g.accountID = ""
	return nil
}

// AccountID returns the signed-in account identifier, empty before
// Authenticate.
func (g *Gate) AccountID() string {
	return g.accountID
}

// ResolveGate replays the gate for one request from ambient facts: whether
// the password cookie is set and which account, if any, the session cookie
// resolves to. Each fact fires its transition, so the guards above apply
// per request too: no role lookup happens while the gate is locked. The
// role lookup error, when present, is returned for logging; the state is
// still Unauthorized in that case.
func ResolveGate(ctx context.Context, unlocked bool, accountID string, roles RoleStore) (GateState, error) {
	g := NewGate()
	if !unlocked {
		return g.State(), nil
	}
	if err := g.Unlock(); err != nil {
		return g.State(), err
	}
	if accountID == "" {
		return g.State(), nil
	}

	err := g.Authenticate(ctx, accountID, roles)
	return g.State(), err
}
