package gateway

import (
	"context"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/remote"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Tier names used by New.
const (
	TierAPI    = "api"
	TierShared = "shared"
	TierMirror = "mirror"
)

// Gateway pulls and pushes snapshots across an ordered list of tiers.
type Gateway struct {
	tiers  []Tier
	logger logging.Logger
}

// New builds the standard chain: api, shared endpoint (when not nil), mirror.
func New(api remote.Client, shared SnapshotEndpoint, mirror *Mirror, logger logging.Logger) *Gateway {
	tiers := []Tier{NewAPITier(api)}
	if shared != nil {
		tiers = append(tiers, NewEndpointTier(TierShared, shared))
	}
	tiers = append(tiers, NewEndpointTier(TierMirror, mirror))
	return NewWithTiers(tiers, logger)
}

// NewWithTiers builds a gateway over arbitrary tiers, highest priority first.
func NewWithTiers(tiers []Tier, logger logging.Logger) *Gateway {
	return &Gateway{tiers: tiers, logger: logger.With("module", "gateway")}
}

// Pull returns the first snapshot offered by a tier. (nil, nil) means no tier
// has data newer than since. An error is only returned when ctx is done.
func (g *Gateway) Pull(ctx context.Context, since int64) (*models.Snapshot, error) {
	for _, t := range g.tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := t.Pull(ctx, since)
		if res.Snapshot != nil {
			g.logger.Debug(ctx, "pulled snapshot", "tier", res.Tier, "products", len(res.Snapshot.Products), "timestamp", res.Snapshot.Timestamp)
			return res.Snapshot, nil
		}
		g.logger.Debug(ctx, "pull tier skipped", "tier", res.Tier, "reason", res.Skipped)
	}
	return nil, ctx.Err()
}

// Push offers the products to each tier in turn and stops at the first one
// that accepts them. It reports false only when every tier failed.
func (g *Gateway) Push(ctx context.Context, products []models.Product, ts int64) bool {
	if products == nil {
		products = []models.Product{}
	}
	snap := models.Snapshot{Products: products, Timestamp: ts}

	for _, t := range g.tiers {
		err := t.Push(ctx, snap)
		if err == nil {
			g.logger.Debug(ctx, "pushed snapshot", "tier", t.Name(), "products", len(products))
			return true
		}
		g.logger.Warn(ctx, "push tier failed", "tier", t.Name(), "error", err)
	}
	return false
}
