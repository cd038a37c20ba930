package products

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))

	return db
}

func TestInsert_AssignsIDAndCreatedAt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	p, err := r.Insert(ctx, models.Product{Name: "Lamp", Description: "desk"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.NotZero(t, p.CreatedAt)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, p, all[0])
}

func TestInsert_DuplicateID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.Insert(ctx, models.Product{ID: "a", Name: "one"})
	require.NoError(t, err)

	_, err = r.Insert(ctx, models.Product{ID: "a", Name: "two"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestUpsert_InsertThenReplaceKeepsCreatedAt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.Upsert(ctx, models.Product{ID: "x", Name: "old", CreatedAt: 42})
	require.NoError(t, err)

	got, err := r.Upsert(ctx, models.Product{ID: "x", Name: "new", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.CreatedAt)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.Product{ID: "x", Name: "new", Description: "d", CreatedAt: 42}, all[0])
}

func TestUpsert_NewRecordGetsCreatedAt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	got, err := r.Upsert(ctx, models.Product{ID: "supplied", Name: "fresh"})
	require.NoError(t, err)
	assert.NotZero(t, got.CreatedAt)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, got.CreatedAt, all[0].CreatedAt)
}

func TestBulkInsert_LockContentionFailsWholeBatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "locked.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(ctx, db, "."))

	holder, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = holder.Close() })

	tx, err := holder.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `insert into products (id, name, description, image, created_at) values ('held', 'Held', '', '', 1)`)
	require.NoError(t, err)

	r := NewSQLiteRepository(db)
	inserted, failures, err := r.BulkInsert(ctx, []models.Product{{Name: "a"}, {Name: "b"}})
	require.Error(t, err)
	assert.True(t, IsBusy(err))
	assert.Empty(t, inserted)
	assert.Empty(t, failures)

	require.NoError(t, tx.Rollback())

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIsBusy_IgnoresOtherErrors(t *testing.T) {
	assert.False(t, IsBusy(nil))
	assert.False(t, IsBusy(common.ErrAlreadyExists))
	assert.False(t, IsBusy(sql.ErrConnDone))
}

func TestRemove_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.Insert(ctx, models.Product{ID: "gone", Name: "n"})
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, "gone"))
	require.NoError(t, r.Remove(ctx, "gone"))
	require.NoError(t, r.Remove(ctx, "never-existed"))

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBulkInsert_DuplicatesAreItemFailures(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.Insert(ctx, models.Product{ID: "1", Name: "existing"})
	require.NoError(t, err)

	inserted, failures, err := r.BulkInsert(ctx, []models.Product{
		{ID: "1", Name: "dup of stored"},
		{ID: "2", Name: "fresh"},
		{ID: "2", Name: "dup in batch"},
		{Name: "no id"},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.ErrorIs(t, f, common.ErrAlreadyExists)
	}

	assert.Equal(t, models.ID("2"), inserted[0].ID)
	assert.NotEmpty(t, inserted[1].ID)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "existing", all[0].Name)
	assert.Equal(t, "fresh", all[1].Name)
}

func TestBulkInsert_Empty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	inserted, failures, err := r.BulkInsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Empty(t, failures)
}

func TestClosedDatabase_ReturnsEngineErrors(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	require.Error(t, r.Ping(ctx))

	_, err := r.ListAll(ctx)
	require.Error(t, err)

	_, _, err = r.BulkInsert(ctx, []models.Product{{Name: "x"}})
	require.Error(t, err)
}
