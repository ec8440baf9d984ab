package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/domain"
)

// RoleStore implements adminflow.RoleStore using PostgreSQL.
type RoleStore struct {
	pool *pgxpool.Pool
}

var _ adminflow.RoleStore = (*RoleStore)(nil)

// NewRoleStore creates a new PostgreSQL-backed role store.
func NewRoleStore(pool *pgxpool.Pool) *RoleStore {
	return &RoleStore{pool: pool}
}

// IsAdmin reports whether an admin role row exists for the account.
// A missing row and a malformed ID are both ordinary "not admin" answers.
func (s *RoleStore) IsAdmin(ctx context.Context, accountID string) (bool, error) {
	uuid, ok := parseUUID(accountID)
	if !ok {
		return false, nil
	}

	var isAdmin bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_roles WHERE account_id = $1)`, uuid).Scan(&isAdmin)
	if err != nil {
		return false, domain.Internal(err, "roles.is_admin", "failed to check admin role")
	}
	return isAdmin, nil
}

// GrantAdmin inserts the admin role row for an account. Granting twice is
// a no-op. Used by the bootstrap path, not by any HTTP handler.
func (s *RoleStore) GrantAdmin(ctx context.Context, accountID string) error {
	uuid, ok := parseUUID(accountID)
	if !ok {
		return domain.Invalid("roles.grant", "invalid account ID")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO admin_roles (account_id) VALUES ($1) ON CONFLICT DO NOTHING`, uuid)
	if err != nil {
		return domain.Internal(err, "roles.grant", "failed to grant admin role")
	}
	return nil
}
