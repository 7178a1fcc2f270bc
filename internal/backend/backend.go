// Package backend builds the configured row store and provisions its tables.
package backend

import (
	"context"
	"fmt"

	"github.com/angelmondragon/rfqdesk/internal/items"
	"github.com/angelmondragon/rfqdesk/internal/quotes"
	"github.com/angelmondragon/rfqdesk/internal/users"
	"github.com/angelmondragon/rfqdesk/pkg/config"
	"github.com/angelmondragon/rfqdesk/pkg/db"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore/memstore"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore/sheets"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore/sqlstore"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore/xlsx"
)

// Backend is an opened row store plus whatever must be released on shutdown.
type Backend struct {
	Store  rowstore.Store
	closer func() error
}

// Close releases the underlying connection, if any.
func (b *Backend) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer()
}

// Headers returns the header row each table is created with.
func Headers(cfg config.StoreConfig) map[string][]string {
	return map[string][]string{
		cfg.UsersTable:      users.Header(),
		cfg.ItemsTable:      items.Header(),
		cfg.QuotationsTable: quotes.Header(),
	}
}

// Open builds the store selected by cfg.Store.Driver. The sheets driver never fails:
// a missing spreadsheet id or credentials yields a store that reports
// BACKEND_UNAVAILABLE so the HTTP surface stays up.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	tables := cfg.Store.Tables()

	switch cfg.Store.Driver {
	case config.StoreDriverSheets:
		store, err := sheets.New(ctx, cfg.Sheets, tables, logg)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "rowstore.sheets_unavailable", err)
			}
			return &Backend{Store: rowstore.NewUnavailable(err)}, nil
		}
		return &Backend{Store: store}, nil

	case config.StoreDriverXLSX:
		if err := xlsx.EnsureWorkbook(cfg.Store.XLSXPath, Headers(cfg.Store)); err != nil {
			return nil, fmt.Errorf("preparing workbook: %w", err)
		}
		store, err := xlsx.New(cfg.Store.XLSXPath, tables)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store}, nil

	case config.StoreDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		store := sqlstore.New(client, tables)
		if err := provisionSQL(ctx, store, cfg.Store); err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Backend{Store: store, closer: client.Close}, nil

	case config.StoreDriverMemory:
		store := memstore.New()
		for name, header := range Headers(cfg.Store) {
			store.CreateTable(name, header...)
		}
		return &Backend{Store: store}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

// Provision creates missing tables for drivers that own their storage. Sheets are
// managed by hand in Google Drive, so the sheets driver only verifies access.
func Provision(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	switch cfg.Store.Driver {
	case config.StoreDriverXLSX:
		return xlsx.EnsureWorkbook(cfg.Store.XLSXPath, Headers(cfg.Store))
	case config.StoreDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return err
		}
		defer client.Close()
		return provisionSQL(ctx, sqlstore.New(client, cfg.Store.Tables()), cfg.Store)
	case config.StoreDriverSheets:
		store, err := sheets.New(ctx, cfg.Sheets, cfg.Store.Tables(), logg)
		if err != nil {
			return err
		}
		return store.Ping(ctx)
	}
	return nil
}

func provisionSQL(ctx context.Context, store *sqlstore.Store, cfg config.StoreConfig) error {
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating row tables: %w", err)
	}
	for name, header := range Headers(cfg) {
		if err := store.DefineTable(ctx, name, header); err != nil {
			return fmt.Errorf("defining table %s: %w", name, err)
		}
	}
	return nil
}
