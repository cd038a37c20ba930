package products

import (
	"context"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Repository describes the record operations used by the local store.
type Repository interface {
	// ListAll returns every stored product in insertion order.
	ListAll(ctx context.Context) ([]models.Product, error)

	// Insert stores a new product, assigning an id and creation time when
	// missing. An existing id yields common.ErrAlreadyExists.
	Insert(ctx context.Context, p models.Product) (models.Product, error)

	// Upsert replaces the product with the same id or inserts it.
	Upsert(ctx context.Context, p models.Product) (models.Product, error)

	// Remove deletes a product by id. Removing a missing id is not an error.
	Remove(ctx context.Context, id models.ID) error

	// BulkInsert inserts candidates one by one. Item failures are returned
	// in the second value and do not abort the batch.
	BulkInsert(ctx context.Context, items []models.Product) ([]models.Product, []error, error)
}
