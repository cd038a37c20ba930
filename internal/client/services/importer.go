package services

import (
	"context"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Reconciler brings externally produced candidates into the store.
type Reconciler struct {
	store RecordStore
}

func NewReconciler(store RecordStore) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile inserts candidates as given. Supplied ids are kept, missing ones
// are assigned; candidates whose id already exists are dropped.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []models.Product) ([]models.Product, error) {
	return r.store.BulkInsert(ctx, candidates)
}
