package snapshots

import (
	"context"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Repository keeps the shared catalog snapshot published by clients.
type Repository interface {
	// Latest returns common.ErrNotFound when nothing was stored yet.
	Latest(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
	// Prune drops every snapshot but the newest.
	Prune(ctx context.Context) error
}
