package remote

import (
	"context"

	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Lister supplies local products when the API is unreachable.
type Lister interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

// FailSoft wraps a Client and swallows its errors.
type FailSoft struct {
	client   Client
	fallback Lister
	logger   logging.Logger
}

// NewFailSoft wraps client. fallback may be nil.
func NewFailSoft(client Client, fallback Lister, logger logging.Logger) *FailSoft {
	return &FailSoft{
		client:   client,
		fallback: fallback,
		logger:   logger.With("module", "remote"),
	}
}

// FetchAll returns the remote catalog, else the local one, else nothing.
func (f *FailSoft) FetchAll(ctx context.Context) []models.Product {
	items, err := f.client.FetchAll(ctx)
	if err == nil {
		return items
	}
	f.logger.Warn(ctx, "fetch from api failed", "error", err)

	if f.fallback != nil {
		local, lerr := f.fallback.ListAll(ctx)
		if lerr == nil {
			return local
		}
		f.logger.Warn(ctx, "local fallback failed", "error", lerr)
	}
	return []models.Product{}
}

// Create returns the stored product, or p with a local id when the call fails.
func (f *FailSoft) Create(ctx context.Context, p models.Product) models.Product {
	out, err := f.client.Create(ctx, p)
	if err == nil {
		return out
	}
	f.logger.Warn(ctx, "create via api failed", "error", err)
	return p.Stamp()
}

// BulkCreate returns the stored products, or the candidates with local ids
// when the call fails.
func (f *FailSoft) BulkCreate(ctx context.Context, items []models.Product) []models.Product {
	out, err := f.client.BulkCreate(ctx, items)
	if err == nil {
		return out
	}
	f.logger.Warn(ctx, "bulk create via api failed", "error", err, "count", len(items))

	local := make([]models.Product, len(items))
	for i, p := range items {
		local[i] = p.Stamp()
	}
	return local
}

// Update returns the stored product, or p unchanged when the call fails.
func (f *FailSoft) Update(ctx context.Context, p models.Product) models.Product {
	out, err := f.client.Update(ctx, p)
	if err == nil {
		return out
	}
	f.logger.Warn(ctx, "update via api failed", "error", err, "id", p.ID)
	return p
}

// Delete reports whether the API confirmed the deletion.
func (f *FailSoft) Delete(ctx context.Context, id models.ID) bool {
	if err := f.client.Delete(ctx, id); err != nil {
		f.logger.Warn(ctx, "delete via api failed", "error", err, "id", id)
		return false
	}
	return true
}
