package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkbook(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "book.xlsx")
	require.NoError(t, EnsureWorkbook(path, map[string][]string{
		"BOT_USERS": {"USERNAME", "PASSWORD", "STATUS", "telegram_id"},
		"items":     {"RFQ", "LINE_ITEM", "EMPLOYEE_ID"},
	}))
	store, err := New(path, []string{"BOT_USERS", "items"})
	require.NoError(t, err)
	return store
}

func TestAppendThenFetch(t *testing.T) {
	ctx := context.Background()
	store := newWorkbook(t)

	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"USERNAME": "ali", "PASSWORD": "1234", "STATUS": "نعم"}))
	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"username": "sara", "PASSWORD": 99}))

	rows, err := store.FetchAll(ctx, "BOT_USERS")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	name, _ := rows[1].Get("USERNAME")
	assert.Equal(t, "sara", name)
	pw, _ := rows[1].Get("PASSWORD")
	assert.Equal(t, "99", pw)
	status, _ := rows[0].Get("STATUS")
	assert.Equal(t, "نعم", status)
}

func TestUpdateAtTouchesOnlyNamedCells(t *testing.T) {
	ctx := context.Background()
	store := newWorkbook(t)
	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"USERNAME": "ali", "PASSWORD": "1234"}))

	require.NoError(t, store.UpdateAt(ctx, "BOT_USERS", 0, rowstore.Record{"telegram_id": "55"}))

	rows, err := store.FetchAll(ctx, "BOT_USERS")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	tg, _ := rows[0].Get("telegram_id")
	assert.Equal(t, "55", tg)
	pw, _ := rows[0].Get("PASSWORD")
	assert.Equal(t, "1234", pw)
}

func TestUpdateAtMissingRow(t *testing.T) {
	store := newWorkbook(t)
	err := store.UpdateAt(context.Background(), "BOT_USERS", 0, rowstore.Record{"telegram_id": "55"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestMissingSheet(t *testing.T) {
	store := newWorkbook(t)
	_, err := store.FetchAll(context.Background(), "QUOTATIONS")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBackendUnavailable))
}

func TestPing(t *testing.T) {
	store := newWorkbook(t)
	assert.NoError(t, store.Ping(context.Background()))

	store.tables = append(store.tables, "QUOTATIONS")
	assert.Error(t, store.Ping(context.Background()))

	missing, err := New(filepath.Join(t.TempDir(), "none.xlsx"), nil)
	require.NoError(t, err)
	assert.Error(t, missing.Ping(context.Background()))
}

func TestEnsureWorkbookKeepsExistingSheets(t *testing.T) {
	ctx := context.Background()
	store := newWorkbook(t)
	require.NoError(t, store.Append(ctx, "items", rowstore.Record{"RFQ": "R-1"}))

	require.NoError(t, EnsureWorkbook(store.path, map[string][]string{
		"items":      {"OTHER"},
		"QUOTATIONS": {"QUOTE_ID"},
	}))

	rows, err := store.FetchAll(ctx, "items")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	rfq, _ := rows[0].Get("RFQ")
	assert.Equal(t, "R-1", rfq)

	quotes, err := store.FetchAll(ctx, "QUOTATIONS")
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
