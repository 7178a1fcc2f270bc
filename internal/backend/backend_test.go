package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rfqdesk/pkg/config"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

func baseConfig(driver string) *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Driver:          driver,
			UsersTable:      "BOT_USERS",
			ItemsTable:      "items",
			QuotationsTable: "QUOTATIONS",
		},
	}
}

func TestOpenSheetsWithoutSpreadsheetDegrades(t *testing.T) {
	cfg := baseConfig(config.StoreDriverSheets)

	b, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	_, err = b.Store.FetchAll(context.Background(), "BOT_USERS")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBackendUnavailable))
	require.NoError(t, b.Close())
}

func TestOpenMemoryCreatesTables(t *testing.T) {
	b, err := Open(context.Background(), baseConfig(config.StoreDriverMemory), logger.Nop())
	require.NoError(t, err)

	require.NoError(t, b.Store.Append(context.Background(), "QUOTATIONS", rowstore.Record{"QUOTE_ID": "Q-1"}))
	rows, err := b.Store.FetchAll(context.Background(), "QUOTATIONS")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestOpenXLSXCreatesWorkbook(t *testing.T) {
	cfg := baseConfig(config.StoreDriverXLSX)
	cfg.Store.XLSXPath = filepath.Join(t.TempDir(), "rfq.xlsx")

	b, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	pinger, ok := b.Store.(rowstore.Pinger)
	require.True(t, ok)
	require.NoError(t, pinger.Ping(context.Background()))
}

func TestOpenSQLProvisionsTables(t *testing.T) {
	cfg := baseConfig(config.StoreDriverSQL)
	cfg.DB = config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          "file:" + filepath.Join(t.TempDir(), "rfq.db"),
		MaxOpenConns: 1,
	}

	require.NoError(t, Provision(context.Background(), cfg, logger.Nop()))

	b, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Store.Append(context.Background(), "items", rowstore.Record{"RFQ": "R1", "LINE_ITEM": "1"}))
	rows, err := b.Store.FetchAll(context.Background(), "items")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	value, ok := rows[0].Get("RFQ")
	require.True(t, ok)
	require.Equal(t, "R1", value)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), baseConfig("mongo"), logger.Nop())
	require.Error(t, err)
}
