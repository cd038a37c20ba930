package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/kv"
	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

type catalogFixture struct {
	catalog *Catalog
	store   RecordStore
	kv      kv.Store
	remote  *fakeRemote
	gateway *fakeGateway
}

func newCatalog(t *testing.T) *catalogFixture {
	t.Helper()
	s, kvs := newStore(t)
	gw := newFakeGateway()
	rem := &fakeRemote{}
	coord := NewCoordinator(s, gw, kvs, SyncConfig{Interval: time.Hour}, logging.NewNop())
	c := NewCatalog(s, rem, coord, false, logging.NewNop())
	t.Cleanup(c.Close)
	return &catalogFixture{catalog: c, store: s, kv: kvs, remote: rem, gateway: gw}
}

func TestCatalog_StartPrefersRemote(t *testing.T) {
	f := newCatalog(t)
	seed(t, f.store, models.Product{ID: "local", Name: "local"})
	f.remote.items = []models.Product{{ID: "remote", Name: "remote"}}

	f.catalog.Start(context.Background())

	list := f.catalog.ListProducts()
	require.Len(t, list, 1)
	assert.Equal(t, models.ID("remote"), list[0].ID)
}

func TestCatalog_StartFallsBackToStore(t *testing.T) {
	f := newCatalog(t)
	seed(t, f.store, models.Product{ID: "local", Name: "local"})

	f.catalog.Start(context.Background())

	list := f.catalog.ListProducts()
	require.Len(t, list, 1)
	assert.Equal(t, models.ID("local"), list[0].ID)
}

func TestCatalog_StartWithBrokenStoreIsEmpty(t *testing.T) {
	kvs := kv.NewMemoryStore()
	bs := brokenStore{err: assert.AnError}
	coord := NewCoordinator(bs, newFakeGateway(), kvs, SyncConfig{}, logging.NewNop())
	c := NewCatalog(bs, &fakeRemote{}, coord, false, logging.NewNop())

	c.Start(context.Background())
	assert.Empty(t, c.ListProducts())
	assert.NotNil(t, c.ListProducts())
}

func TestCatalog_AddEditRemove(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	f.catalog.Start(ctx)

	added, err := f.catalog.AddProduct(ctx, models.Product{Name: "  Lamp  "})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Lamp", added.Name)
	assert.Equal(t, models.DefaultDescription, added.Description)
	require.Len(t, f.remote.created, 1)
	assert.Equal(t, added.ID, f.remote.created[0].ID)

	edited, err := f.catalog.EditProduct(ctx, models.Product{ID: added.ID, Name: "Desk lamp", Description: "brass"})
	require.NoError(t, err)
	assert.Equal(t, added.CreatedAt, edited.CreatedAt)

	list := f.catalog.ListProducts()
	require.Len(t, list, 1)
	assert.Equal(t, "Desk lamp", list[0].Name)

	stored, err := f.store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, stored)

	require.NoError(t, f.catalog.RemoveProduct(ctx, added.ID))
	require.NoError(t, f.catalog.RemoveProduct(ctx, added.ID))
	assert.Empty(t, f.catalog.ListProducts())
	assert.Equal(t, []models.ID{added.ID, added.ID}, f.remote.deleted)

	_, err = f.catalog.EditProduct(ctx, models.Product{Name: "no id"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCatalog_ListIsNewestFirst(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	_, err := f.catalog.AddProduct(ctx, models.Product{Name: "old", CreatedAt: 100})
	require.NoError(t, err)
	_, err = f.catalog.AddProduct(ctx, models.Product{Name: "new", CreatedAt: 200})
	require.NoError(t, err)
	_, err = f.catalog.AddProduct(ctx, models.Product{ID: "fresh", Name: "fresh"})
	require.NoError(t, err)

	list := f.catalog.ListProducts()
	require.Len(t, list, 3)
	assert.Equal(t, "fresh", list[0].Name)
	assert.Equal(t, "new", list[1].Name)
	assert.Equal(t, "old", list[2].Name)
}

func TestCatalog_Search(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	_, _ = f.catalog.AddProduct(ctx, models.Product{Name: "Red Chair", Description: "wood"})
	_, _ = f.catalog.AddProduct(ctx, models.Product{Name: "Table", Description: "RED oak"})
	_, _ = f.catalog.AddProduct(ctx, models.Product{Name: "Lamp", Description: "brass"})

	assert.Len(t, f.catalog.Search("red"), 2)
	assert.Len(t, f.catalog.Search(""), 3)
	assert.Empty(t, f.catalog.Search("sofa"))
}

func TestCatalog_BulkImportPassesCandidatesThrough(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	before, err := f.store.ListAll(ctx)
	require.NoError(t, err)

	got, err := f.catalog.BulkImport(ctx, []models.Product{{Name: "Widget"}, {Name: ""}, {Name: "Gadget"}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "", got[1].Name)
	assert.Equal(t, "", got[1].Description)
	for _, p := range got {
		assert.NotEmpty(t, p.ID)
	}

	after, err := f.store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+3)
	assert.Len(t, f.catalog.ListProducts(), 3)
	require.Len(t, f.remote.bulk, 1)
}

func TestCatalog_ExportImportRoundTrip(t *testing.T) {
	src := newCatalog(t)
	ctx := context.Background()

	seed(t, src.store,
		models.Product{ID: "1", Name: "one", Description: "d1", CreatedAt: 1},
		models.Product{ID: "1700000000000.5", Name: "two", Description: "d2", Image: "data:image/png;base64,AA=="},
	)

	data, err := src.catalog.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("[\n  {")))

	dst := newCatalog(t)
	dst.catalog.sync.now = func() int64 { return 555 }
	imported, err := dst.catalog.ImportSnapshot(ctx, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, imported, 2)

	want, err := src.store.ListAll(ctx)
	require.NoError(t, err)
	got, err := dst.store.ListAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)
	assert.Len(t, dst.catalog.ListProducts(), 2)

	require.Len(t, dst.gateway.pushed, 1)
	wm, err := dst.catalog.Watermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(555), wm)
}

func TestCatalog_ImportSnapshotKeepsWatermarkWhenPublishFails(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	f.gateway.pushOK = false
	f.catalog.sync.now = func() int64 { return 777 }

	imported, err := f.catalog.ImportSnapshot(ctx, strings.NewReader(`[{"id":"a","name":"A"}]`))
	require.NoError(t, err)
	assert.Len(t, imported, 1)
	assert.Len(t, f.gateway.pushed, 1)

	wm, err := f.catalog.Watermark(ctx)
	require.NoError(t, err)
	assert.Zero(t, wm)
}

func TestCatalog_ImportSnapshotValidation(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	_, err := f.catalog.ImportSnapshot(ctx, strings.NewReader(`{"products":[]}`))
	require.ErrorIs(t, err, models.ErrInvalidFormat)

	_, err = f.catalog.ImportSnapshot(ctx, strings.NewReader(`[{`))
	require.ErrorIs(t, err, models.ErrMalformed)

	assert.Empty(t, f.gateway.pushed)
}

func TestCatalog_ExportEmpty(t *testing.T) {
	f := newCatalog(t)
	data, err := f.catalog.ExportSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCatalog_TriggerSyncRefreshesView(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	f.catalog.Start(ctx)
	f.gateway.snap = &models.Snapshot{Timestamp: 5, Products: []models.Product{{ID: "cloud", Name: "from cloud"}}}

	res := f.catalog.TriggerSync(ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 1, res.Merged)

	list := f.catalog.ListProducts()
	require.Len(t, list, 1)
	assert.Equal(t, models.ID("cloud"), list[0].ID)
	assert.Equal(t, StateIdle, f.catalog.SyncState())
}
