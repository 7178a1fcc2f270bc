// Package sqlstore keeps spreadsheet-shaped tables in a relational database through
// GORM. Headers and rows are stored as JSON arrays so the column set stays dynamic.
package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/rfqdesk/pkg/db"
	"github.com/angelmondragon/rfqdesk/pkg/db/models"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	client *db.Client
	tables []string
}

func New(client *db.Client, tables []string) *Store {
	return &Store{client: client, tables: tables}
}

// Migrate creates the backing tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&models.TableHeader{}, &models.TableRow{})
}

// DefineTable registers a logical table with its header. An existing header is kept.
func (s *Store) DefineTable(ctx context.Context, name string, header []string) error {
	encoded, err := json.Marshal(header)
	if err != nil {
		return err
	}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TableHeader{Name: name, Columns: string(encoded)}).Error
}

func (s *Store) header(tx *gorm.DB, table string) ([]string, error) {
	var h models.TableHeader
	err := tx.Where("name = ?", table).Take(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rowstore.ErrTableNotFound(table)
	}
	if err != nil {
		return nil, err
	}
	var header []string
	if err := json.Unmarshal([]byte(h.Columns), &header); err != nil {
		return nil, fmt.Errorf("decoding header of %q: %w", table, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

func (s *Store) FetchAll(ctx context.Context, table string) ([]rowstore.Row, error) {
	tx := s.client.DB().WithContext(ctx)
	header, err := s.header(tx, table)
	if err != nil {
		return nil, rowstore.Unavailable(err, "fetch", table)
	}

	var records []models.TableRow
	if err := tx.Where("sheet = ?", table).Order("id ASC").Find(&records).Error; err != nil {
		return nil, rowstore.Unavailable(err, "fetch", table)
	}

	rows := make([]rowstore.Row, 0, len(records))
	for i, rec := range records {
		values, err := decodeValues(rec.Values)
		if err != nil {
			return nil, rowstore.Unavailable(err, "fetch", table)
		}
		row := rowstore.Row{Index: i}
		for col, name := range header {
			if name == "" || col >= len(values) {
				continue
			}
			row.Cells = append(row.Cells, rowstore.Cell{Column: name, Value: values[col]})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) Append(ctx context.Context, table string, record rowstore.Record) error {
	tx := s.client.DB().WithContext(ctx)
	header, err := s.header(tx, table)
	if err != nil {
		return rowstore.Unavailable(err, "append", table)
	}
	values := make([]string, len(header))
	apply(header, values, record)

	encoded, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := tx.Create(&models.TableRow{Sheet: table, Values: string(encoded)}).Error; err != nil {
		return rowstore.Unavailable(err, "append", table)
	}
	return nil
}

func (s *Store) UpdateAt(ctx context.Context, table string, index int, record rowstore.Record) error {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		header, err := s.header(tx, table)
		if err != nil {
			return err
		}
		if index < 0 {
			return rowstore.ErrRowNotFound(table, index)
		}

		var rec models.TableRow
		err = tx.Where("sheet = ?", table).Order("id ASC").Offset(index).Limit(1).Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rowstore.ErrRowNotFound(table, index)
		}
		if err != nil {
			return err
		}

		values, err := decodeValues(rec.Values)
		if err != nil {
			return err
		}
		for len(values) < len(header) {
			values = append(values, "")
		}
		apply(header, values, record)

		encoded, err := json.Marshal(values)
		if err != nil {
			return err
		}
		return tx.Model(&rec).Update("cell_values", string(encoded)).Error
	})
	if err != nil {
		return rowstore.Unavailable(err, "update", table)
	}
	return nil
}

// Ping checks connectivity and that every expected table has a header.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return rowstore.Unavailable(err, "ping", "database")
	}
	tx := s.client.DB().WithContext(ctx)
	for _, table := range s.tables {
		if _, err := s.header(tx, table); err != nil {
			return rowstore.Unavailable(err, "ping", table)
		}
	}
	return nil
}

func apply(header, values []string, record rowstore.Record) {
	for key, value := range record {
		if col := rowstore.MatchColumn(header, key); col >= 0 {
			values[col] = rowstore.Stringify(value)
		}
	}
}

func decodeValues(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decoding row values: %w", err)
	}
	return values, nil
}
