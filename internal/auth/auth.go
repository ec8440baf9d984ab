// Package auth provides email/password accounts with opaque session tokens
// and a subscription feed of session changes.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/miradev/mira/internal/domain"
)

// Session is a live account session. The token is the opaque value stored
// in the browser cookie; AccountID is what authorization lookups key on.
type Session struct {
	Token     string
	AccountID string
	Email     string
	ExpiresAt time.Time
}

// Account is a persisted login identity.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Event marks the kind of session change pushed to subscribers.
type Event int

const (
	EventSignedIn Event = iota
	EventSignedOut
)

// Change is one session-change notification. Session is nil on sign-out.
type Change struct {
	Event   Event
	Session *Session
}

// Provider is the authentication surface consumed by handlers.
type Provider interface {
	// SignIn verifies credentials and opens a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account, opens a session and sends a
	// confirmation email carrying redirectTarget.
	SignUp(ctx context.Context, email, password, redirectTarget string) (*Session, error)

	// SignOut deletes the session for the given token.
	SignOut(ctx context.Context, token string) error

	// GetSession resolves a token to a live session. An unknown or
	// expired token returns (nil, nil); errors are reserved for store
	// failures.
	GetSession(ctx context.Context, token string) (*Session, error)

	// Subscribe registers a session-change listener and returns the
	// handle that removes it. Callers must release the handle when the
	// listener's owner is torn down.
	Subscribe(fn func(Change)) (unsubscribe func())
}

// AccountStore is the persistence needed by the provider.
// Implementations live in the postgres package.
type AccountStore interface {
	// CreateAccount inserts a new account, failing with a conflict
	// error when the email is already registered.
	CreateAccount(ctx context.Context, email, passwordHash string) (*Account, error)

	// GetAccountByEmail returns the account or ErrAccountNotFound.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// CreateSession persists a session row.
	CreateSession(ctx context.Context, accountID, token string, expiresAt time.Time) error

	// GetSessionAccount resolves a token to its session and account,
	// or ErrSessionNotFound.
	GetSessionAccount(ctx context.Context, token string) (*Session, error)

	// DeleteSession removes the session row. Unknown tokens are a no-op.
	DeleteSession(ctx context.Context, token string) error
}

// Mailer sends the account lifecycle mail.
type Mailer interface {
	// SendSignupConfirmation welcomes a new account and points it back
	// at redirectTarget.
	SendSignupConfirmation(ctx context.Context, email, redirectTarget string) error
}

// Errors surfaced to the login and signup forms.
var (
	ErrInvalidCredentials = &domain.Error{Code: domain.EUNAUTHORIZED, Message: "Invalid login credentials"}
	ErrEmailTaken         = &domain.Error{Code: domain.ECONFLICT, Message: "This email is already registered"}
	ErrAccountNotFound    = &domain.Error{Code: domain.ENOTFOUND, Message: "Account not found"}
	ErrSessionNotFound    = &domain.Error{Code: domain.ENOTFOUND, Message: "Session not found"}
)

// GenerateSessionToken generates a cryptographically secure session token
// Uses 32 bytes of random data encoded as base64 URL-safe string
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}
