package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the two tables and their uniqueness constraints if
// they do not exist yet. Additive only; there is no migration framework.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			gender TEXT NOT NULL CHECK (gender IN ('male', 'female', 'other')),
			phone TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id BIGSERIAL PRIMARY KEY,
			contact_name TEXT NOT NULL,
			contact_phone TEXT NOT NULL,
			contact_email TEXT,
			contact_address TEXT,
			contact_gender TEXT NOT NULL DEFAULT 'other' CHECK (contact_gender IN ('male', 'female', 'other')),
			contact_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// a user cannot hold the same phone number twice; duplicate inserts
		// racing past the handler pre-check end up here as 23505
		`CREATE UNIQUE INDEX IF NOT EXISTS contacts_user_phone_uniq
			ON contacts (user_id, contact_phone)`,
	}

	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
