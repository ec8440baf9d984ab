package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/miradev/mira/internal/domain"
)

// SessionTTL is how long a session stays valid.
const SessionTTL = 7 * 24 * time.Hour

// Service implements Provider on top of an AccountStore.
type Service struct {
	store  AccountStore
	mailer Mailer
	logger *slog.Logger

	mu          sync.Mutex
	subscribers map[int]func(Change)
	nextSubID   int
}

var _ Provider = (*Service)(nil)

// NewService creates the provider. mailer may be nil when outbound mail is
// not configured; signup then skips the confirmation message.
func NewService(store AccountStore, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{
		store:       store,
		mailer:      mailer,
		logger:      logger,
		subscribers: make(map[int]func(Change)),
	}
}

// SignIn verifies credentials and opens a session. A missing account and a
// wrong password produce the same error so the form cannot be used to probe
// registered emails.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrInvalidCredentials
		}
		return nil, domain.Internal(err, "auth.sign_in", "failed to look up account")
	}

	if err := VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, domain.Internal(err, "auth.sign_in", "failed to verify password")
	}

	session, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}

	s.notify(Change{Event: EventSignedIn, Session: session})
	return session, nil
}

// SignUp registers an account, opens a session and sends the confirmation
// email. Mail failures are logged, not returned; the account is already
// created and the admin can proceed.
func (s *Service) SignUp(ctx context.Context, email, password, redirectTarget string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid("auth.sign_up", "A valid email address is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooShort) {
			return nil, domain.Invalid("auth.sign_up", "Password must be at least 8 characters")
		}
		return nil, domain.Internal(err, "auth.sign_up", "failed to hash password")
	}

	account, err := s.store.CreateAccount(ctx, email, hash)
	if err != nil {
		if domain.IsCode(err, domain.ECONFLICT) {
			return nil, ErrEmailTaken
		}
		return nil, domain.Internal(err, "auth.sign_up", "failed to create account")
	}

	session, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendSignupConfirmation(ctx, email, redirectTarget); err != nil {
			s.logger.Error("failed to send signup confirmation",
				slog.String("email", email),
				slog.String("error", err.Error()))
		}
	}

	s.notify(Change{Event: EventSignedIn, Session: session})
	return session, nil
}

// SignOut deletes the session and notifies subscribers.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return domain.Internal(err, "auth.sign_out", "failed to delete session")
	}
	s.notify(Change{Event: EventSignedOut})
	return nil
}

// GetSession resolves a token. Unknown and expired tokens both come back as
// (nil, nil); an expired row is deleted on the way out.
func (s *Service) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.store.GetSessionAccount(ctx, token)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, nil
		}
		return nil, domain.Internal(err, "auth.get_session", "failed to look up session")
	}

	if time.Now().After(session.ExpiresAt) {
		if err := s.store.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", slog.String("error", err.Error()))
		}
		return nil, nil
	}

	return session, nil
}

// Subscribe registers a listener and returns its unsubscribe handle.
// The handle is idempotent.
func (s *Service) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Service) openSession(ctx context.Context, account *Account) (*Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, domain.Internal(err, "auth.open_session", "failed to generate session token")
	}

	expiresAt := time.Now().Add(SessionTTL)
	if err := s.store.CreateSession(ctx, account.ID, token, expiresAt); err != nil {
		return nil, domain.Internal(err, "auth.open_session", "failed to persist session")
	}

	return &Session{
		Token:     token,
		AccountID: account.ID,
		Email:     account.Email,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) notify(c Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
