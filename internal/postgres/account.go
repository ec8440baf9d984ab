package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miradev/mira/internal/auth"
	"github.com/miradev/mira/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint.
const uniqueViolation = "23505"

// AccountStore implements auth.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *pgxpool.Pool
}

var _ auth.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates a new PostgreSQL-backed account store.
func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// CreateAccount inserts a new account. A duplicate email surfaces as a
// conflict error.
func (s *AccountStore) CreateAccount(ctx context.Context, email, passwordHash string) (*auth.Account, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, email, password_hash, created_at`,
		email, passwordHash)

	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.Conflict("account.create", "email already registered")
		}
		return nil, domain.Internal(err, "account.create", "failed to create account")
	}
	return account, nil
}

// GetAccountByEmail returns the account for email, or ErrAccountNotFound.
func (s *AccountStore) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`, email)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, domain.Internal(err, "account.get_by_email", "failed to get account")
	}
	return account, nil
}

// CreateSession persists a session row.
func (s *AccountStore) CreateSession(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	uuid, ok := parseUUID(accountID)
	if !ok {
		return domain.Invalid("session.create", "invalid account ID")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO account_sessions (account_id, token, expires_at) VALUES ($1, $2, $3)`,
		uuid, token, expiresAt)
	if err != nil {
		return domain.Internal(err, "session.create", "failed to create session")
	}
	return nil
}

// GetSessionAccount resolves a token to its session joined with the owning
// account, or ErrSessionNotFound.
func (s *AccountStore) GetSessionAccount(ctx context.Context, token string) (*auth.Session, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT s.token, a.id, a.email, s.expires_at
		 FROM account_sessions s
		 JOIN accounts a ON a.id = s.account_id
		 WHERE s.token = $1`,
		token)

	var (
		session   auth.Session
		accountID pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	if err := row.Scan(&session.Token, &accountID, &session.Email, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, domain.Internal(err, "session.get", "failed to get session")
	}

	session.AccountID = accountID.String()
	session.ExpiresAt = expiresAt.Time
	return &session, nil
}

// DeleteSession removes the session row. Unknown tokens are a no-op.
func (s *AccountStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM account_sessions WHERE token = $1`, token)
	if err != nil {
		return domain.Internal(err, "session.delete", "failed to delete session")
	}
	return nil
}

func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		account   auth.Account
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &account.Email, &account.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	account.ID = id.String()
	account.CreatedAt = createdAt.Time
	return &account, nil
}
