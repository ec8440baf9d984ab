package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradev/mira/internal/domain"
)

// mockAccountStore implements AccountStore with overridable functions.
type mockAccountStore struct {
	createAccountFn     func(ctx context.Context, email, passwordHash string) (*Account, error)
	getAccountByEmailFn func(ctx context.Context, email string) (*Account, error)
	createSessionFn     func(ctx context.Context, accountID, token string, expiresAt time.Time) error
	getSessionAccountFn func(ctx context.Context, token string) (*Session, error)
	deleteSessionFn     func(ctx context.Context, token string) error
}

func (m *mockAccountStore) CreateAccount(ctx context.Context, email, passwordHash string) (*Account, error) {
	return m.createAccountFn(ctx, email, passwordHash)
}

func (m *mockAccountStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return m.getAccountByEmailFn(ctx, email)
}

func (m *mockAccountStore) CreateSession(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, accountID, token, expiresAt)
	}
	return nil
}

func (m *mockAccountStore) GetSessionAccount(ctx context.Context, token string) (*Session, error) {
	return m.getSessionAccountFn(ctx, token)
}

func (m *mockAccountStore) DeleteSession(ctx context.Context, token string) error {
	if m.deleteSessionFn != nil {
		return m.deleteSessionFn(ctx, token)
	}
	return nil
}

// mockMailer records sent confirmations.
type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) SendSignupConfirmation(ctx context.Context, email, redirectTarget string) error {
	m.sent = append(m.sent, email)
	return m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestService_SignIn(t *testing.T) {
	ctx := context.Background()
	hash := hashOf(t, "correct-horse")

	store := &mockAccountStore{
		getAccountByEmailFn: func(ctx context.Context, email string) (*Account, error) {
			if email == "admin@example.com" {
				return &Account{ID: "acc-1", Email: email, PasswordHash: hash}, nil
			}
			return nil, ErrAccountNotFound
		},
	}
	svc := NewService(store, nil, testLogger())

	t.Run("valid credentials open a session", func(t *testing.T) {
		session, err := svc.SignIn(ctx, "Admin@Example.com ", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "acc-1", session.AccountID)
		assert.NotEmpty(t, session.Token)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "admin@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email uses the same error as a wrong password", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and sends confirmation", func(t *testing.T) {
		store := &mockAccountStore{
			createAccountFn: func(ctx context.Context, email, passwordHash string) (*Account, error) {
				assert.NotEqual(t, "new-password", passwordHash, "passwords are stored hashed")
				return &Account{ID: "acc-2", Email: email}, nil
			},
		}
		mailer := &mockMailer{}
		svc := NewService(store, mailer, testLogger())

		session, err := svc.SignUp(ctx, "new@example.com", "new-password", "/admin")
		require.NoError(t, err)
		assert.Equal(t, "acc-2", session.AccountID)
		assert.Equal(t, []string{"new@example.com"}, mailer.sent)
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := &mockAccountStore{
			createAccountFn: func(ctx context.Context, email, passwordHash string) (*Account, error) {
				return nil, domain.Conflict("postgres.create_account", "email already registered")
			},
		}
		svc := NewService(store, &mockMailer{}, testLogger())

		_, err := svc.SignUp(ctx, "taken@example.com", "some-password", "/admin")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("short password rejected before touching the store", func(t *testing.T) {
		store := &mockAccountStore{
			createAccountFn: func(ctx context.Context, email, passwordHash string) (*Account, error) {
				t.Fatal("store must not be called")
				return nil, nil
			},
		}
		svc := NewService(store, &mockMailer{}, testLogger())

		_, err := svc.SignUp(ctx, "new@example.com", "short", "/admin")
		assert.True(t, domain.IsCode(err, domain.EINVALID))
	})

	t.Run("mail failure does not fail the signup", func(t *testing.T) {
		store := &mockAccountStore{
			createAccountFn: func(ctx context.Context, email, passwordHash string) (*Account, error) {
				return &Account{ID: "acc-3", Email: email}, nil
			},
		}
		mailer := &mockMailer{err: errors.New("smtp unreachable")}
		svc := NewService(store, mailer, testLogger())

		session, err := svc.SignUp(ctx, "new@example.com", "new-password", "/admin")
		require.NoError(t, err)
		assert.NotNil(t, session)
	})
}

func TestService_GetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token is anonymous, not an error", func(t *testing.T) {
		store := &mockAccountStore{
			getSessionAccountFn: func(ctx context.Context, token string) (*Session, error) {
				return nil, ErrSessionNotFound
			},
		}
		svc := NewService(store, nil, testLogger())

		session, err := svc.GetSession(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("expired session is deleted and anonymous", func(t *testing.T) {
		deleted := ""
		store := &mockAccountStore{
			getSessionAccountFn: func(ctx context.Context, token string) (*Session, error) {
				return &Session{Token: token, AccountID: "acc-1", ExpiresAt: time.Now().Add(-time.Hour)}, nil
			},
			deleteSessionFn: func(ctx context.Context, token string) error {
				deleted = token
				return nil
			},
		}
		svc := NewService(store, nil, testLogger())

		session, err := svc.GetSession(ctx, "stale")
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.Equal(t, "stale", deleted)
	})

	t.Run("empty token short-circuits", func(t *testing.T) {
		svc := NewService(&mockAccountStore{}, nil, testLogger())

		session, err := svc.GetSession(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestService_Subscribe(t *testing.T) {
	ctx := context.Background()
	hash := hashOf(t, "correct-horse")

	store := &mockAccountStore{
		getAccountByEmailFn: func(ctx context.Context, email string) (*Account, error) {
			return &Account{ID: "acc-1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewService(store, nil, testLogger())

	var got []Change
	unsubscribe := svc.Subscribe(func(c Change) {
		got = append(got, c)
	})

	_, err := svc.SignIn(ctx, "admin@example.com", "correct-horse")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, EventSignedIn, got[0].Event)
	require.NotNil(t, got[0].Session)

	require.NoError(t, svc.SignOut(ctx, got[0].Session.Token))
	require.Len(t, got, 2)
	assert.Equal(t, EventSignedOut, got[1].Event)
	assert.Nil(t, got[1].Session)

	// After unsubscribing, no further notifications arrive.
	unsubscribe()
	_, err = svc.SignIn(ctx, "admin@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	require.NoError(t, err)
	b, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
