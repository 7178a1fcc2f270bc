package users

import (
	"context"

	"github.com/angelmondragon/rfqdesk/internal/schema"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

// Repository reads and writes the users table.
type Repository struct {
	store rowstore.Store
	table string
}

// NewRepository binds a users repo to the named table of the store.
func NewRepository(store rowstore.Store, table string) *Repository {
	return &Repository{store: store, table: table}
}

// List returns every user in table order.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.store.FetchAll(ctx, r.table)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out, nil
}

// SetTelegramID writes the Telegram id into the user row at index.
func (r *Repository) SetTelegramID(ctx context.Context, index int, telegramID string) error {
	return r.store.UpdateAt(ctx, r.table, index, rowstore.Record{schema.TelegramIDColumn: telegramID})
}
