package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables if they do not exist. Foreign keys cascade
// on delete as a storage-level safety net; uploaded-file cleanup is still
// performed explicitly because blobs live outside the database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				first_name VARCHAR(100) NOT NULL,
				last_name VARCHAR(100) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
				reset_token_hash VARCHAR(255),
				reset_token_expires TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name VARCHAR(255) NOT NULL,
				kind TEXT NOT NULL CHECK (kind IN ('folder', 'file')),
				owner_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				extension VARCHAR(50),
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Items, tables.Users, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_owner_parent_idx ON %s (owner_id, parent_id)`,
			tables.Items, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_idx ON %s (parent_id)`,
			tables.Items, tables.Items),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				stored_name VARCHAR(500) NOT NULL,
				original_name VARCHAR(255) NOT NULL,
				size_bytes BIGINT NOT NULL,
				mime_type VARCHAR(100) NOT NULL DEFAULT '',
				owner_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.UploadedFiles, tables.Users, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_owner_parent_idx ON %s (owner_id, parent_id)`,
			tables.UploadedFiles, tables.UploadedFiles),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				item_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				can_view BOOLEAN NOT NULL DEFAULT FALSE,
				can_create BOOLEAN NOT NULL DEFAULT FALSE,
				can_upload BOOLEAN NOT NULL DEFAULT FALSE,
				can_edit BOOLEAN NOT NULL DEFAULT FALSE,
				can_delete BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				UNIQUE (item_id, user_id)
			)`, tables.Permissions, tables.Items, tables.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_idx ON %s (user_id)`,
			tables.Permissions, tables.Permissions),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				todo VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				due TIMESTAMPTZ NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed')),
				owner_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Todos, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				amount NUMERIC(10, 2) NOT NULL,
				date TIMESTAMPTZ NOT NULL,
				description TEXT NOT NULL,
				category VARCHAR(100) NOT NULL,
				owner_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Expenses, tables.Users),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
