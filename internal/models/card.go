package models

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Card holds a free-form map of values keyed by the string form of an
// element id. Keys are not format-validated; historically free-form keys
// are tolerated for backward compatibility.
type Card struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"not null;index"`
	BoardID     uint64 `gorm:"not null;index:idx_cards_board_id"`
	FieldValues datatypes.JSONMap `gorm:"type:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// formatID renders an id in its external string form.
func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ExternalID returns the card id in its external string form.
func (c *Card) ExternalID() string {
	return formatID(c.ID)
}
