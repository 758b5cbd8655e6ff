package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createKVTableSQL = `
CREATE TABLE IF NOT EXISTS kv_item
(
    namespace  TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    version    BIGINT      NOT NULL DEFAULT 1,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (namespace, key)
);`

const upsertKVItemSQL = `
INSERT INTO kv_item (namespace, key, value) VALUES ($1, $2, $3)
ON CONFLICT (namespace, key) DO UPDATE
SET value = EXCLUDED.value, version = kv_item.version + 1, updated_at = now();`

var _ Backend = (*PostgresBackend)(nil)

// PostgresBackend keeps items in the kv_item table. The pool is owned by the caller.
type PostgresBackend struct {
	db        *pgxpool.Pool
	namespace string
}

func NewPostgresBackend(ctx context.Context, db *pgxpool.Pool, namespace string) (*PostgresBackend, error) {
	if _, err := db.Exec(ctx, createKVTableSQL); err != nil {
		return nil, fmt.Errorf("create kv_item table: %w", err)
	}
	return &PostgresBackend{
		db:        db,
		namespace: namespace,
	}, nil
}

func (p *PostgresBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(
		ctx,
		`SELECT value FROM kv_item WHERE namespace = $1 AND key = $2;`,
		p.namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresBackend) SetItem(ctx context.Context, key, value string) error {
	_, err := p.db.Exec(ctx, upsertKVItemSQL, p.namespace, key, value)
	return err
}

func (p *PostgresBackend) RemoveItem(ctx context.Context, key string) error {
	_, err := p.db.Exec(
		ctx,
		`DELETE FROM kv_item WHERE namespace = $1 AND key = $2;`,
		p.namespace, key,
	)
	return err
}

// Update serializes writers of the same key with a transaction scoped advisory lock,
// whether the row exists yet or not.
func (p *PostgresBackend) Update(ctx context.Context, key string, fn UpdateFunc) error {
	err := pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, p.namespace+"::"+key); err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}

		var current string
		exists := true
		err := tx.QueryRow(
			ctx,
			`SELECT value FROM kv_item WHERE namespace = $1 AND key = $2;`,
			p.namespace, key,
		).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			exists = false
		} else if err != nil {
			return err
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, upsertKVItemSQL, p.namespace, key, next)
		return err
	})
	if errors.Is(err, ErrUnchanged) {
		return nil
	}
	return err
}
