// Package products stores catalog products in PostgreSQL.
package products

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Product, error) {
	query :=
		`SELECT id, name, description, image, created_at FROM products
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

// Create inserts p. An existing id yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query :=
		`INSERT INTO products (id, name, description, image, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.ID.String(), p.Name, p.Description, p.Image, p.CreatedAt).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, common.ErrAlreadyExists
		}
		return models.Product{}, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Upsert inserts or replaces p. The creation time of an existing row is kept.
func (r *PostgresRepository) Upsert(ctx context.Context, p models.Product) (models.Product, error) {
	query :=
		`INSERT INTO products (id, name, description, image, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   description = EXCLUDED.description,
		   image = EXCLUDED.image,
		   created_at = CASE WHEN products.created_at = 0 THEN EXCLUDED.created_at ELSE products.created_at END,
		   updated_at = now()
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.ID.String(), p.Name, p.Description, p.Image, p.CreatedAt).Scan(&p.CreatedAt)
	if err != nil {
		return models.Product{}, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Delete removes the product. Missing ids are not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id models.ID) error {
	query := `DELETE FROM products WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id.String()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
