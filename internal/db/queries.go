package db

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const getValue = `SELECT value FROM local_storage WHERE key = ?`

func (q *Queries) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getValue, key).Scan(&value)
	return value, err
}

const setValue = `
INSERT INTO local_storage (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    updated_at = excluded.updated_at
`

type SetValueParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

func (q *Queries) SetValue(ctx context.Context, arg SetValueParams) error {
	_, err := q.db.ExecContext(ctx, setValue, arg.Key, arg.Value, arg.UpdatedAt)
	return err
}
