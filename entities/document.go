package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one schemaless record of a named collection.
type Document struct {
	Collection string            `gorm:"primaryKey;type:varchar(64)" json:"collection"`
	ID         string            `gorm:"primaryKey;type:varchar(191)" json:"id"`
	Data       datatypes.JSONMap `gorm:"type:jsonb;not null" json:"data"`
	CreatedAt  time.Time         `gorm:"type:timestamp with time zone;index" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"type:timestamp with time zone" json:"updated_at"`
}
