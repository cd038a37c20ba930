package flat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/kv"
	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

type failingKV struct {
	kv.Store
	setErr error
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func TestRepository_CRUD(t *testing.T) {
	r := NewRepository(kv.NewMemoryStore())
	ctx := context.Background()

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	a, err := r.Insert(ctx, models.Product{Name: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotZero(t, a.CreatedAt)

	_, err = r.Insert(ctx, models.Product{ID: a.ID, Name: "again"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	edited, err := r.Upsert(ctx, models.Product{ID: a.ID, Name: "A2"})
	require.NoError(t, err)
	assert.Equal(t, a.CreatedAt, edited.CreatedAt)

	created, err := r.Upsert(ctx, models.Product{ID: "new", Name: "B"})
	require.NoError(t, err)
	assert.NotZero(t, created.CreatedAt)

	all, err = r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A2", all[0].Name)
	assert.Equal(t, "B", all[1].Name)

	require.NoError(t, r.Remove(ctx, a.ID))
	require.NoError(t, r.Remove(ctx, a.ID))

	all, err = r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ID("new"), all[0].ID)
}

func TestRepository_ReadsLegacyNumericIDs(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, kv.KeyProducts,
		[]byte(`[{"id":1700000000000,"name":"old","description":"x"},{"id":1700000000000.123,"name":"older","description":"y"}]`)))

	all, err := NewRepository(store).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.ID("1700000000000"), all[0].ID)
	assert.Equal(t, models.ID("1700000000000.123"), all[1].ID)
}

func TestRepository_BulkInsert(t *testing.T) {
	r := NewRepository(kv.NewMemoryStore())
	ctx := context.Background()

	_, err := r.Insert(ctx, models.Product{ID: "1", Name: "stored"})
	require.NoError(t, err)

	inserted, failures, err := r.BulkInsert(ctx, []models.Product{
		{ID: "1", Name: "dup"},
		{ID: "2", Name: "two"},
		{ID: "2", Name: "dup in batch"},
		{Name: "generated"},
	})
	require.NoError(t, err)
	assert.Len(t, inserted, 2)
	assert.Len(t, failures, 2)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_WriteFailureIsReturned(t *testing.T) {
	boom := errors.New("disk full")
	r := NewRepository(&failingKV{Store: kv.NewMemoryStore(), setErr: boom})
	ctx := context.Background()

	_, err := r.Insert(ctx, models.Product{Name: "x"})
	require.ErrorIs(t, err, boom)

	_, _, err = r.BulkInsert(ctx, []models.Product{{Name: "y"}})
	require.ErrorIs(t, err, boom)
}

func TestRepository_CorruptDocument(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, kv.KeyProducts, []byte(`{"not":"array"`)))

	_, err := NewRepository(store).ListAll(ctx)
	require.Error(t, err)
}
