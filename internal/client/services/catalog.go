package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Catalog is the single entry point of the front ends. Mutations go to the
// record store first, then to the API, and finally into the in-memory view.
type Catalog struct {
	store    RecordStore
	remote   RemoteCatalog
	sync     *Coordinator
	importer *Reconciler
	autoSync bool
	logger   logging.Logger

	mu       sync.RWMutex
	products []models.Product
}

// NewCatalog wires the facade. When autoSync is set Start also starts the
// coordinator's schedule.
func NewCatalog(store RecordStore, remote RemoteCatalog, coordinator *Coordinator, autoSync bool, logger logging.Logger) *Catalog {
	c := &Catalog{
		store:    store,
		remote:   remote,
		sync:     coordinator,
		importer: NewReconciler(store),
		autoSync: autoSync,
		logger:   logger.With("module", "catalog"),
		products: []models.Product{},
	}
	coordinator.OnSynced(func(ctx context.Context, res SyncResult) {
		if res.Merged > 0 {
			c.reload(ctx)
		}
	})
	return c
}

// Start loads the catalog and, with auto-sync on, starts background sync.
func (c *Catalog) Start(ctx context.Context) {
	if c.autoSync {
		c.sync.Start(ctx)
	}
	c.load(ctx)
}

// load prefers a non-empty API catalog and falls back to the store.
func (c *Catalog) load(ctx context.Context) {
	items := c.remote.FetchAll(ctx)
	if len(items) == 0 {
		local, err := c.store.ListAll(ctx)
		if err != nil {
			c.logger.Error(ctx, "failed to load local catalog", "error", err)
			local = []models.Product{}
		}
		items = local
	}
	c.replace(items)
}

func (c *Catalog) reload(ctx context.Context) {
	items, err := c.store.ListAll(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to refresh catalog", "error", err)
		return
	}
	c.replace(items)
}

func (c *Catalog) replace(items []models.Product) {
	cp := append([]models.Product{}, items...)
	models.SortForDisplay(cp)

	c.mu.Lock()
	c.products = cp
	c.mu.Unlock()
}

func (c *Catalog) upsertCached(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			models.SortForDisplay(c.products)
			return
		}
	}
	c.products = append(c.products, p)
	models.SortForDisplay(c.products)
}

// ListProducts returns the catalog, newest first.
func (c *Catalog) ListProducts() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Product{}, c.products...)
}

// Search returns products whose name or description contains term.
func (c *Catalog) Search(term string) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []models.Product{}
	for _, p := range c.products {
		if p.Matches(term) {
			out = append(out, p)
		}
	}
	return out
}

// AddProduct stores a new product.
func (c *Catalog) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	stored, err := c.store.Insert(ctx, p.Normalize())
	if err != nil {
		return models.Product{}, fmt.Errorf("add product: %w", err)
	}
	c.remote.Create(ctx, stored)
	c.upsertCached(stored)
	return stored, nil
}

// EditProduct replaces the fields of an existing product.
func (c *Catalog) EditProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == "" {
		return models.Product{}, fmt.Errorf("edit product: %w", common.ErrNotFound)
	}
	stored, err := c.store.Update(ctx, p.Normalize())
	if err != nil {
		return models.Product{}, fmt.Errorf("edit product: %w", err)
	}
	c.remote.Update(ctx, stored)
	c.upsertCached(stored)
	return stored, nil
}

// RemoveProduct deletes a product. Unknown ids are not an error.
func (c *Catalog) RemoveProduct(ctx context.Context, id models.ID) error {
	if err := c.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove product: %w", err)
	}
	c.remote.Delete(ctx, id)

	c.mu.Lock()
	kept := c.products[:0]
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.products = kept
	c.mu.Unlock()
	return nil
}

// BulkImport stores extracted candidates and returns the ones accepted.
func (c *Catalog) BulkImport(ctx context.Context, candidates []models.Product) ([]models.Product, error) {
	inserted, err := c.importer.Reconcile(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("bulk import: %w", err)
	}
	if len(inserted) > 0 {
		c.remote.BulkCreate(ctx, inserted)
	}
	for _, p := range inserted {
		c.upsertCached(p)
	}
	return inserted, nil
}

// ExportSnapshot renders the whole record store as an indented JSON array.
func (c *Catalog) ExportSnapshot(ctx context.Context) ([]byte, error) {
	items, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return models.EncodeExport(items)
}

// ImportSnapshot restores a backup produced by ExportSnapshot and publishes
// the result. Records whose id already exists are kept as they are.
func (c *Catalog) ImportSnapshot(ctx context.Context, r io.Reader) ([]models.Product, error) {
	candidates, err := models.DecodeExport(r)
	if err != nil {
		return nil, err
	}

	inserted, err := c.importer.Reconcile(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	c.reload(ctx)

	if err := c.sync.Publish(ctx); err != nil {
		c.logger.Warn(ctx, "failed to publish imported catalog", "error", err)
	}
	return inserted, nil
}

// TriggerSync runs a sync now.
func (c *Catalog) TriggerSync(ctx context.Context) SyncResult {
	return c.sync.Trigger(ctx)
}

// SyncState reports the coordinator state.
func (c *Catalog) SyncState() SyncState {
	return c.sync.State()
}

// Watermark returns the time of the last successful sync.
func (c *Catalog) Watermark(ctx context.Context) (int64, error) {
	return c.sync.Watermark(ctx)
}

// Close stops background sync.
func (c *Catalog) Close() {
	c.sync.Stop()
}
