package services

import (
	"context"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// RecordStore is the local, authoritative product store.
type RecordStore interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	Insert(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Remove(ctx context.Context, id models.ID) error
	BulkInsert(ctx context.Context, candidates []models.Product) ([]models.Product, error)
}

// SnapshotGateway exchanges full catalog snapshots with the shared sources.
type SnapshotGateway interface {
	Pull(ctx context.Context, since int64) (*models.Snapshot, error)
	Push(ctx context.Context, products []models.Product, ts int64) bool
}

// RemoteCatalog mirrors facade mutations to the API. It never fails.
type RemoteCatalog interface {
	FetchAll(ctx context.Context) []models.Product
	Create(ctx context.Context, p models.Product) models.Product
	Update(ctx context.Context, p models.Product) models.Product
	Delete(ctx context.Context, id models.ID) bool
	BulkCreate(ctx context.Context, items []models.Product) []models.Product
}
