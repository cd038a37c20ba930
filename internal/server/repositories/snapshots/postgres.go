// Package snapshots stores the shared catalog snapshot in PostgreSQL.
package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/dbx"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Latest(ctx context.Context) (*models.Snapshot, error) {
	query :=
		`SELECT payload FROM shared_snapshots
		 ORDER BY id DESC
		 LIMIT 1
		 `

	var payload []byte
	if err := r.db.QueryRowContext(ctx, query).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	snap := &models.Snapshot{}
	if err := json.Unmarshal(payload, snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Products == nil {
		snap.Products = []models.Product{}
	}
	return snap, nil
}

func (r *PostgresRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	query := `INSERT INTO shared_snapshots (payload) VALUES ($1)`
	if _, err := r.db.ExecContext(ctx, query, payload); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Prune(ctx context.Context) error {
	query :=
		`DELETE FROM shared_snapshots
		 WHERE id < (SELECT max(id) FROM shared_snapshots)
		 `

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
