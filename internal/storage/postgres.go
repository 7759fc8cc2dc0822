package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const kvTable = "kv_store"

// Querier is the subset of *pgxpool.Pool the postgres store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db     Querier
	logger *slog.Logger
	psql   squirrel.StatementBuilderType
}

func NewPostgresStore(db Querier, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
		psql:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	query, args, err := p.psql.Select("value").From(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build select query: %w", err)
	}

	var value string
	if err := p.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		p.logger.ErrorContext(ctx, "Failed to read key", slog.String("key", key), slog.Any("error", err))
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key, value string) error {
	query, args, err := p.psql.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		p.logger.ErrorContext(ctx, "Failed to write key", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Remove(ctx context.Context, key string) error {
	query, args, err := p.psql.Delete(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		p.logger.ErrorContext(ctx, "Failed to remove key", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	var one int
	return p.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}
