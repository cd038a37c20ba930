// Package services contains server-side business logic. CatalogService
// serves the product API and the shared snapshot.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/dbx"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
	"github.com/dmitrijs2005/catalogkeeper/internal/server/repositories/repomanager"
)

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

func prepare(p models.Product) (models.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}
	return p.Normalize().Stamp(), nil
}

// List returns all products, newest first.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx)
}

// Create stores a new product, assigning an id and creation time when missing.
func (s *CatalogService) Create(ctx context.Context, p models.Product) (models.Product, error) {
	p, err := prepare(p)
	if err != nil {
		return models.Product{}, err
	}
	return s.repomanager.Products(s.db).Create(ctx, p)
}

// Update replaces the product stored under id, creating it when absent.
func (s *CatalogService) Update(ctx context.Context, id models.ID, p models.Product) (models.Product, error) {
	if id == "" {
		return models.Product{}, fmt.Errorf("%w: id is required", common.ErrInvalidArgument)
	}
	p.ID = id
	p, err := prepare(p)
	if err != nil {
		return models.Product{}, err
	}
	return s.repomanager.Products(s.db).Upsert(ctx, p)
}

func (s *CatalogService) Delete(ctx context.Context, id models.ID) error {
	return s.repomanager.Products(s.db).Delete(ctx, id)
}

// BulkUpsert stores all items in one transaction. Items are taken as they are
// held by the client record store, so a missing name is not rejected here.
func (s *CatalogService) BulkUpsert(ctx context.Context, items []models.Product) ([]models.Product, error) {
	prepared := make([]models.Product, 0, len(items))
	for _, p := range items {
		prepared = append(prepared, p.Normalize().Stamp())
	}
	if len(prepared) == 0 {
		return prepared, nil
	}

	stored := make([]models.Product, 0, len(prepared))
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)
		for _, p := range prepared {
			out, err := repo.Upsert(ctx, p)
			if err != nil {
				return err
			}
			stored = append(stored, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// SharedSnapshot returns the last published snapshot or common.ErrNotFound.
func (s *CatalogService) SharedSnapshot(ctx context.Context) (*models.Snapshot, error) {
	return s.repomanager.Snapshots(s.db).Latest(ctx)
}

// StoreSharedSnapshot replaces the shared snapshot.
func (s *CatalogService) StoreSharedSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: empty snapshot", common.ErrInvalidArgument)
	}
	if snap.Products == nil {
		snap.Products = []models.Product{}
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Snapshots(tx)
		if err := repo.Save(ctx, snap); err != nil {
			return err
		}
		return repo.Prune(ctx)
	})
}
