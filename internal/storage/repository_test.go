package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exptracker/internal/core"
	"exptracker/internal/persist"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "expenses.db")
	r, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	r, _ := newTestRepo(t)

	rows, err := r.db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('expenses','snapshot')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["expenses"])
	assert.True(t, found["snapshot"])
}

func TestSQLiteLoadBeforeSaveIsAbsent(t *testing.T) {
	r, _ := newTestRepo(t)

	res := r.Load(context.Background())
	assert.Equal(t, persist.StatusAbsent, res.Status)
	assert.NotNil(t, res.Expenses)
	assert.Empty(t, res.Expenses)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, path := newTestRepo(t)

	want := []core.Expense{
		{Description: "Coffee", Amount: 3.5, Category: "Food"},
		{Description: "Bus", Amount: 2, Category: "Transport"},
		{Description: "Coffee", Amount: 3.5, Category: "Food"},
		{Description: "Refund", Amount: -10.25, Category: "Misc"},
	}
	require.NoError(t, r.Save(ctx, want))

	res := r.Load(ctx)
	require.Equal(t, persist.StatusLoaded, res.Status)
	assert.Equal(t, want, res.Expenses)

	// Reopening the same file sees the same data.
	require.NoError(t, r.Close())
	r2, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r2.Close() })

	res = r2.Load(ctx)
	require.Equal(t, persist.StatusLoaded, res.Status)
	assert.Equal(t, want, res.Expenses)
}

func TestSQLiteSaveEmptyReplacesRows(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	require.NoError(t, r.Save(ctx, []core.Expense{{Description: "a", Amount: 1, Category: "b"}}))
	require.NoError(t, r.Save(ctx, nil))

	res := r.Load(ctx)
	assert.Equal(t, persist.StatusLoaded, res.Status)
	assert.Empty(t, res.Expenses)
}

func TestSQLiteCountMismatchIsCorrupt(t *testing.T) {
	ctx := context.Background()
	r, path := newTestRepo(t)
	require.NoError(t, r.Save(ctx, []core.Expense{
		{Description: "a", Amount: 1, Category: "b"},
		{Description: "c", Amount: 2, Category: "d"},
	}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`DELETE FROM expenses WHERE position = 1`)
	require.NoError(t, err)

	res := r.Load(ctx)
	assert.Equal(t, persist.StatusCorrupt, res.Status)
	assert.ErrorIs(t, res.Err, ErrSnapshotMismatch)
	assert.Empty(t, res.Expenses)
}
