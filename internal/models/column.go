package models

import (
	"time"

	"gorm.io/datatypes"
)

// Column is a saved view definition over a board's cards. The sort,
// inclusion, grouping, and summary specs are opaque user-supplied JSON;
// they are stored and returned verbatim, never evaluated here.
type Column struct {
	ID                      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID                  uint64 `gorm:"not null;index"`
	BoardID                 uint64 `gorm:"not null;index"`
	Name                    string `gorm:"size:255"`
	DisplayOrder            *int
	SortOrder               datatypes.JSONMap `gorm:"type:json"`
	CardInclusionConditions datatypes.JSON    `gorm:"type:json"`
	CardGrouping            datatypes.JSONMap `gorm:"type:json"`
	Summary                 datatypes.JSONMap `gorm:"type:json"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
