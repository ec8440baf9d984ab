// Command grantadmin grants the admin role to an existing account.
// New signups have no role and cannot pass the admin gate until one is
// granted, so the first admin is bootstrapped with this tool:
//
//	grantadmin admin@example.com
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miradev/mira/internal"
	"github.com/miradev/mira/internal/postgres"
)

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: grantadmin <email>")
	}
	email := os.Args[1]

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	accounts := postgres.NewAccountStore(pool)
	roles := postgres.NewRoleStore(pool)

	account, err := accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up account %q: %w", email, err)
	}

	if err := roles.GrantAdmin(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to grant admin role: %w", err)
	}

	fmt.Printf("granted admin role to %s (%s)\n", account.Email, account.ID)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
