package products

import (
	"context"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Repository persists catalog products on the server.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Upsert(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id models.ID) error
}
