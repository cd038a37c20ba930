// Package store is the local record store of the catalog client. It runs every
// operation against the SQLite engine and, when that engine is missing or
// fails, repeats the operation against the flat key-value snapshot.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/kv"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/repositories/flat"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/repositories/products"
	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/filex"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "catalog.db"

// Engine names reported by Store.Engine.
const (
	EngineSQLite = "sqlite"
	EngineFlat   = "flat"
)

// Store implements the record store with a primary and a fallback engine.
type Store struct {
	primary  products.Repository
	fallback products.Repository
	kv       kv.Store
	db       *sql.DB
	logger   logging.Logger
}

// New composes a store from its engines. primary may be nil.
func New(primary, fallback products.Repository, store kv.Store, logger logging.Logger) *Store {
	return &Store{
		primary:  primary,
		fallback: fallback,
		kv:       store,
		logger:   logger.With("module", "store"),
	}
}

// Open builds the store for dataDir. A database that cannot be opened is
// logged and the store runs on the flat engine alone.
func Open(ctx context.Context, dataDir string, logger logging.Logger) (*Store, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}
	files := kv.NewFileStore(dir)

	var primary products.Repository
	db, err := InitDatabase(ctx, filepath.Join(dir, DatabaseFile))
	if err != nil {
		logger.Warn(ctx, "sqlite unavailable, using flat store", "error", err)
		db = nil
	} else {
		primary = products.NewSQLiteRepository(db)
	}

	s := New(primary, flat.NewRepository(files), files, logger)
	s.db = db
	return s, nil
}

// KV exposes the flat key-value store shared with the sync components.
func (s *Store) KV() kv.Store {
	return s.kv
}

// Engine reports which engine currently serves operations.
func (s *Store) Engine() string {
	if s.primary == nil {
		return EngineFlat
	}
	return EngineSQLite
}

// Close releases the database, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// engineFailure reports whether err should send the operation to the fallback.
// Lock contention is not a failure of the engine: writing the record to the
// flat store would hide it from every later read.
func engineFailure(err error) bool {
	if err == nil || products.IsBusy(err) {
		return false
	}
	return !errors.Is(err, common.ErrAlreadyExists) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func (s *Store) degrade(ctx context.Context, op string, err error) {
	s.logger.Warn(ctx, "primary engine failed, falling back to flat store", "op", op, "error", err)
}

// ListAll returns a full copy of the stored products.
func (s *Store) ListAll(ctx context.Context) ([]models.Product, error) {
	if s.primary != nil {
		items, err := s.primary.ListAll(ctx)
		if !engineFailure(err) {
			return items, err
		}
		s.degrade(ctx, "list", err)
	}

	items, err := s.fallback.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return items, nil
}

// Insert stores p, assigning an id and creation time when missing.
func (s *Store) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	if s.primary != nil {
		out, err := s.primary.Insert(ctx, p)
		if !engineFailure(err) {
			return out, err
		}
		s.degrade(ctx, "insert", err)
	}

	out, err := s.fallback.Insert(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return out, nil
}

// Update replaces the product with p.ID or inserts it when absent.
func (s *Store) Update(ctx context.Context, p models.Product) (models.Product, error) {
	if s.primary != nil {
		out, err := s.primary.Upsert(ctx, p)
		if !engineFailure(err) {
			return out, err
		}
		s.degrade(ctx, "update", err)
	}

	out, err := s.fallback.Upsert(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return out, nil
}

// Remove deletes the product with id. A missing id is not an error.
func (s *Store) Remove(ctx context.Context, id models.ID) error {
	if s.primary != nil {
		err := s.primary.Remove(ctx, id)
		if !engineFailure(err) {
			return err
		}
		s.degrade(ctx, "remove", err)
	}

	if err := s.fallback.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove product: %w", err)
	}
	return nil
}

// BulkInsert inserts candidates independently and returns the ones stored.
// Item failures are logged and dropped.
func (s *Store) BulkInsert(ctx context.Context, candidates []models.Product) ([]models.Product, error) {
	if len(candidates) == 0 {
		return []models.Product{}, nil
	}

	var (
		inserted []models.Product
		failures []error
		err      error
	)
	if s.primary != nil {
		inserted, failures, err = s.primary.BulkInsert(ctx, candidates)
		if engineFailure(err) {
			s.degrade(ctx, "bulk insert", err)
		}
	}
	if s.primary == nil || engineFailure(err) {
		inserted, failures, err = s.fallback.BulkInsert(ctx, candidates)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert products: %w", err)
	}

	for _, f := range failures {
		s.logger.Warn(ctx, "bulk insert item skipped", "error", f)
	}
	if len(failures) > 0 {
		s.logger.Info(ctx, "bulk insert finished", "inserted", len(inserted), "failed", len(failures))
	}
	return inserted, nil
}
