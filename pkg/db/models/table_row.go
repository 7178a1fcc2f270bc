package models

import "time"

// TableRow is one data row. Values is a JSON array aligned with the table header;
// rows of a table are ordered by ID, which fixes their positional handle.
type TableRow struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Sheet     string    `gorm:"column:sheet;size:128;not null;index:rowstore_rows_sheet_idx"`
	Values    string    `gorm:"column:cell_values;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TableRow) TableName() string { return "rowstore_rows" }
