package models

import "time"

// TableHeader stores the ordered column labels of one logical table as a JSON array.
type TableHeader struct {
	Name      string    `gorm:"column:name;size:128;primaryKey"`
	Columns   string    `gorm:"column:columns;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TableHeader) TableName() string { return "rowstore_headers" }
