package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"workbench/internal/domain/repositories"
)

// RepositoryConfig holds everything a repository implementation needs.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names so dev, test and prod
// can share one database.
type TableNames struct {
	Users         string
	Items         string
	UploadedFiles string
	Permissions   string
	Todos         string
	Expenses      string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:         prefix + "users",
		Items:         prefix + "items",
		UploadedFiles: prefix + "uploaded_files",
		Permissions:   prefix + "permissions",
		Todos:         prefix + "todos",
		Expenses:      prefix + "expenses",
	}
}

// CreateConnectionPool creates a pgx pool and verifies connectivity.
//
// Table names are interpolated with fmt.Sprintf before statements reach the
// server, so each prefix gets its own prepared statements; no identifier
// ever comes from user input.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction bound to the context if one exists,
// otherwise the pool. Repositories call this on every query so they
// automatically participate in an enclosing ExecTx scope.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
