package products

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/dbx"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// SQLiteRepository implements Repository on top of a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Ping reports whether the underlying database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListAll lists all products ordered by insertion.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	query := `select id, name, description, image, created_at from products order by rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	result := []models.Product{}
	for rows.Next() {
		var item models.Product
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Image, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func insert(ctx context.Context, db dbx.DBTX, p models.Product) error {
	query := `insert into products (id, name, description, image, created_at)
			values (?, ?, ?, ?, ?)
			on conflict(id) do nothing`
	res, err := db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Image, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("product %s: %w", p.ID, common.ErrAlreadyExists)
	}
	return nil
}

// Insert stores a new product.
func (r *SQLiteRepository) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	p = p.Stamp()
	if err := insert(ctx, r.db, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Upsert inserts p or replaces the product with the same id. A new row gets
// the current time when p does not carry a creation time, an existing row
// keeps its own.
func (r *SQLiteRepository) Upsert(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == "" {
		p = p.Stamp()
	}
	query := `insert into products (id, name, description, image, created_at)
			values (?, ?, ?, ?, ?)
			on conflict(id) do update set name = excluded.name,
				description = excluded.description,
				image = excluded.image,
				created_at = case when ? = 0 then products.created_at else excluded.created_at end
			returning created_at`
	row := r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Description, p.Image, p.Stamp().CreatedAt, p.CreatedAt)
	if err := row.Scan(&p.CreatedAt); err != nil {
		return models.Product{}, fmt.Errorf("failed to upsert product: %w", err)
	}
	return p, nil
}

// Remove deletes a product by id.
func (r *SQLiteRepository) Remove(ctx context.Context, id models.ID) error {
	if _, err := r.db.ExecContext(ctx, `delete from products where id=?`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// BulkInsert inserts items inside one transaction, one savepoint per item.
func (r *SQLiteRepository) BulkInsert(ctx context.Context, items []models.Product) ([]models.Product, []error, error) {
	var (
		inserted []models.Product
		failures []error
	)

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		inserted = make([]models.Product, 0, len(items))
		failures = nil

		for _, item := range items {
			p := item.Stamp()
			err := dbx.WithSavepoint(ctx, tx, "bulk_item", func(ctx context.Context) error {
				return insert(ctx, tx, p)
			})
			if IsBusy(err) {
				return err
			}
			if err != nil {
				failures = append(failures, err)
				continue
			}
			inserted = append(inserted, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bulk insert products: %w", err)
	}
	return inserted, failures, nil
}
