// Package flat implements the product repository over a single key-value
// document holding the whole catalog as a JSON array. It is the last-resort
// engine used when the embedded database is unavailable.
package flat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/kv"
	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Repository keeps all products under kv.KeyProducts.
type Repository struct {
	kv kv.Store
	mu sync.Mutex
}

// NewRepository returns a Repository backed by store.
func NewRepository(store kv.Store) *Repository {
	return &Repository{kv: store}
}

func (r *Repository) load(ctx context.Context) ([]models.Product, error) {
	data, err := r.kv.Get(ctx, kv.KeyProducts)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Product{}, nil
	}

	var items []models.Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode flat products: %w", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return items, nil
}

func (r *Repository) save(ctx context.Context, items []models.Product) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode flat products: %w", err)
	}
	return r.kv.Set(ctx, kv.KeyProducts, data)
}

// ListAll returns every stored product.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Insert appends a new product.
func (r *Repository) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return models.Product{}, err
	}

	p = p.Stamp()
	if _, ok := models.IDSet(items)[p.ID]; ok {
		return models.Product{}, fmt.Errorf("product %s: %w", p.ID, common.ErrAlreadyExists)
	}

	if err := r.save(ctx, append(items, p)); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Upsert replaces the product with the same id in place or appends it.
func (r *Repository) Upsert(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return models.Product{}, err
	}

	if p.ID == "" {
		p = p.Stamp()
	}

	replaced := false
	for i := range items {
		if items[i].ID != p.ID {
			continue
		}
		if p.CreatedAt == 0 {
			p.CreatedAt = items[i].CreatedAt
		}
		items[i] = p
		replaced = true
		break
	}
	if !replaced {
		p = p.Stamp()
		items = append(items, p)
	}

	if err := r.save(ctx, items); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Remove drops the product with id. A missing id leaves the document untouched.
func (r *Repository) Remove(ctx context.Context, id models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return r.save(ctx, kept)
}

// BulkInsert appends every candidate whose id is not already present and
// writes the document once.
func (r *Repository) BulkInsert(ctx context.Context, candidates []models.Product) ([]models.Product, []error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	seen := models.IDSet(items)
	inserted := make([]models.Product, 0, len(candidates))
	var failures []error

	for _, c := range candidates {
		p := c.Stamp()
		if _, ok := seen[p.ID]; ok {
			failures = append(failures, fmt.Errorf("product %s: %w", p.ID, common.ErrAlreadyExists))
			continue
		}
		seen[p.ID] = struct{}{}
		inserted = append(inserted, p)
	}

	if len(inserted) == 0 {
		return inserted, failures, nil
	}
	if err := r.save(ctx, append(items, inserted...)); err != nil {
		return nil, nil, err
	}
	return inserted, failures, nil
}
