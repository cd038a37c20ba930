package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/kv"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// Mirror keeps the last pushed snapshot in the local key-value store.
type Mirror struct {
	kv kv.Store
}

func NewMirror(store kv.Store) *Mirror {
	return &Mirror{kv: store}
}

func (m *Mirror) Fetch(ctx context.Context) (*models.Snapshot, error) {
	data, err := m.kv.Get(ctx, kv.KeyCloudProducts)
	if err != nil || data == nil {
		return nil, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode mirror: %w", err)
	}
	return &snap, nil
}

func (m *Mirror) Store(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, kv.KeyCloudProducts, data)
}
