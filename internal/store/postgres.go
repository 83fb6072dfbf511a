package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"CashLedger/internal/entity"
)

// querier is the subset of *sql.DB / *sql.Tx the store needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Postgres stores entities as JSONB rows keyed by (kind, id).
type Postgres struct {
	db *sql.DB
	q  querier
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, q: db}
}

func (p *Postgres) Load(ctx context.Context, kind entity.Kind, id string) (entity.Entity, error) {
	var data []byte
	err := p.q.QueryRowContext(ctx,
		`SELECT data FROM entities WHERE kind = $1 AND id = $2`,
		string(kind), id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s %s: %w", string(kind), id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", string(kind), id, err)
	}
	return decodeEntity(kind, data)
}

func (p *Postgres) Upsert(ctx context.Context, e entity.Entity) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", string(e.EntityKind()), e.EntityID(), err)
	}

	_, err = p.q.ExecContext(ctx,
		`INSERT INTO entities (kind, id, data, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (kind, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		string(e.EntityKind()), e.EntityID(), data,
	)
	if err != nil {
		return fmt.Errorf("upsert %s %s: %w", string(e.EntityKind()), e.EntityID(), err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, kind entity.Kind, id string) error {
	_, err := p.q.ExecContext(ctx,
		`DELETE FROM entities WHERE kind = $1 AND id = $2`,
		string(kind), id,
	)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", string(kind), id, err)
	}
	return nil
}

// WithinTx runs fn against a transaction-scoped store, committing on nil
// and rolling back on error. The core scopes one transaction per inbound
// event so an account is never left partially reconciled.
func (p *Postgres) WithinTx(ctx context.Context, fn func(Store) error) error {
	if p.db == nil {
		return errors.New("store: WithinTx on a transaction-scoped store")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	scoped := &Postgres{q: tx}
	if err := fn(scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
