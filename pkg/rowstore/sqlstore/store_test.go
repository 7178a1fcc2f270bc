package sqlstore

import (
	"context"
	"testing"

	"github.com/angelmondragon/rfqdesk/pkg/db"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(sqlite.Open("file::memory:"))
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := New(db.NewFromConn(conn), []string{"BOT_USERS"})
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.DefineTable(ctx, "BOT_USERS", []string{"USERNAME", "PASSWORD", "STATUS", " telegram_id "}))
	return store
}

func TestAppendFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"username": "ali", "PASSWORD": 1234, "STATUS": "نعم"}))
	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"USERNAME": "sara"}))

	rows, err := store.FetchAll(ctx, "BOT_USERS")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"USERNAME", "PASSWORD", "STATUS", "telegram_id"}, rows[0].Columns())

	pw, _ := rows[0].Get("PASSWORD")
	assert.Equal(t, "1234", pw)
	name, _ := rows[1].Get("USERNAME")
	assert.Equal(t, "sara", name)
	assert.Equal(t, 1, rows[1].Index)
}

func TestUpdateAtByPosition(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"USERNAME": "ali"}))
	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"USERNAME": "sara"}))

	require.NoError(t, store.UpdateAt(ctx, "BOT_USERS", 1, rowstore.Record{"telegram_id": "55"}))

	rows, err := store.FetchAll(ctx, "BOT_USERS")
	require.NoError(t, err)
	tg, _ := rows[1].Get("telegram_id")
	assert.Equal(t, "55", tg)
	tg, _ = rows[0].Get("telegram_id")
	assert.Equal(t, "", tg)

	err = store.UpdateAt(ctx, "BOT_USERS", 2, rowstore.Record{"telegram_id": "55"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDefineTableKeepsExistingHeader(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.DefineTable(ctx, "BOT_USERS", []string{"OTHER"}))
	require.NoError(t, store.Append(ctx, "BOT_USERS", rowstore.Record{"USERNAME": "ali"}))

	rows, err := store.FetchAll(ctx, "BOT_USERS")
	require.NoError(t, err)
	name, ok := rows[0].Get("USERNAME")
	assert.True(t, ok)
	assert.Equal(t, "ali", name)
}

func TestUnknownTable(t *testing.T) {
	store := newTestStore(t)
	_, err := store.FetchAll(context.Background(), "items")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBackendUnavailable))
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	store.tables = append(store.tables, "items")
	assert.Error(t, store.Ping(context.Background()))
}
