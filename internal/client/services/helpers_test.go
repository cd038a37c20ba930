package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/kv"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/repositories/flat"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/store"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// fakeGateway records pushes and serves a fixed pull result.
type fakeGateway struct {
	mu        sync.Mutex
	snap      *models.Snapshot
	pullErr   error
	pushOK    bool
	pulls     int
	sinces    []int64
	pushed    [][]models.Product
	pullEnter chan struct{}
	release   chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{pushOK: true}
}

func (g *fakeGateway) Pull(ctx context.Context, since int64) (*models.Snapshot, error) {
	g.mu.Lock()
	g.pulls++
	g.sinces = append(g.sinces, since)
	enter, release := g.pullEnter, g.release
	g.mu.Unlock()

	if enter != nil {
		enter <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return g.snap, g.pullErr
}

func (g *fakeGateway) Push(_ context.Context, products []models.Product, _ int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pushed = append(g.pushed, append([]models.Product{}, products...))
	return g.pushOK
}

func (g *fakeGateway) pullCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pulls
}

// fakeRemote is an always-offline API unless items are set.
type fakeRemote struct {
	mu      sync.Mutex
	items   []models.Product
	created []models.Product
	updated []models.Product
	deleted []models.ID
	bulk    [][]models.Product
}

func (r *fakeRemote) FetchAll(context.Context) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Product{}, r.items...)
}

func (r *fakeRemote) Create(_ context.Context, p models.Product) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, p)
	return p
}

func (r *fakeRemote) Update(_ context.Context, p models.Product) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, p)
	return p
}

func (r *fakeRemote) Delete(_ context.Context, id models.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return false
}

func (r *fakeRemote) BulkCreate(_ context.Context, items []models.Product) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bulk = append(r.bulk, items)
	return items
}

func newStore(t *testing.T) (*store.Store, kv.Store) {
	t.Helper()
	kvs := kv.NewMemoryStore()
	return store.New(nil, flat.NewRepository(kvs), kvs, logging.NewNop()), kvs
}

func seed(t *testing.T, s RecordStore, products ...models.Product) {
	t.Helper()
	for _, p := range products {
		_, err := s.Insert(context.Background(), p)
		require.NoError(t, err)
	}
}
