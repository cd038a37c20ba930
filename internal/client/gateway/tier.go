package gateway

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/remote"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Skip reasons reported by tiers that produced no snapshot.
var (
	ErrNoData = errors.New("no data")
	ErrStale  = errors.New("not newer than watermark")
)

// Result is the outcome of pulling from one tier: either a snapshot or the
// reason the tier was skipped.
type Result struct {
	Tier     string
	Snapshot *models.Snapshot
	Skipped  error
}

func found(tier string, snap *models.Snapshot) Result {
	return Result{Tier: tier, Snapshot: snap}
}

func skipped(tier string, reason error) Result {
	return Result{Tier: tier, Skipped: reason}
}

// Tier is one data source of the gateway.
type Tier interface {
	Name() string
	Pull(ctx context.Context, since int64) Result
	Push(ctx context.Context, snap models.Snapshot) error
}

// APITier reads and writes the primary API product collection.
type APITier struct {
	client remote.Client
	now    func() int64
}

func NewAPITier(client remote.Client) *APITier {
	return &APITier{client: client, now: models.NowMillis}
}

func (t *APITier) Name() string { return TierAPI }

// Pull returns the API catalog stamped with the current time. An empty
// catalog is treated as no data.
func (t *APITier) Pull(ctx context.Context, _ int64) Result {
	items, err := t.client.FetchAll(ctx)
	if err != nil {
		return skipped(t.Name(), err)
	}
	if len(items) == 0 {
		return skipped(t.Name(), ErrNoData)
	}
	return found(t.Name(), &models.Snapshot{Products: items, Timestamp: t.now()})
}

func (t *APITier) Push(ctx context.Context, snap models.Snapshot) error {
	_, err := t.client.BulkCreate(ctx, snap.Products)
	return err
}

// EndpointTier adapts a SnapshotEndpoint. Pulled snapshots must be newer
// than the watermark.
type EndpointTier struct {
	name     string
	endpoint SnapshotEndpoint
}

func NewEndpointTier(name string, endpoint SnapshotEndpoint) *EndpointTier {
	return &EndpointTier{name: name, endpoint: endpoint}
}

func (t *EndpointTier) Name() string { return t.name }

func (t *EndpointTier) Pull(ctx context.Context, since int64) Result {
	snap, err := t.endpoint.Fetch(ctx)
	switch {
	case err != nil:
		return skipped(t.name, err)
	case snap == nil:
		return skipped(t.name, ErrNoData)
	case !snap.NewerThan(since):
		return skipped(t.name, ErrStale)
	}
	return found(t.name, snap)
}

func (t *EndpointTier) Push(ctx context.Context, snap models.Snapshot) error {
	return t.endpoint.Store(ctx, snap)
}
