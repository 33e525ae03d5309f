package models

import (
	"time"

	"gorm.io/datatypes"
)

// Board is the tenant-scoping container for columns, elements, and cards.
// Options is a free-form map; the "webhooks" and "share" sub-keys are
// reserved and consumed by the webhook client and the share endpoint.
type Board struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"not null;index"`
	Name        string `gorm:"size:255"`
	Icon        string `gorm:"size:255"`
	ColorTheme  string `gorm:"size:255"`
	FavoritedAt *time.Time
	Options     datatypes.JSONMap `gorm:"type:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WebhookURL returns the webhook URL configured under
// options.webhooks.<event>, or "" when not configured.
func (b *Board) WebhookURL(event string) string {
	hooks, ok := b.Options["webhooks"].(map[string]interface{})
	if !ok {
		return ""
	}
	url, _ := hooks[event].(string)
	return url
}

// ShareField returns the element id string configured under
// options.share.<key>, or "" when not configured.
func (b *Board) ShareField(key string) string {
	share, ok := b.Options["share"].(map[string]interface{})
	if !ok {
		return ""
	}
	switch v := share[key].(type) {
	case string:
		return v
	case float64:
		return formatID(uint64(v))
	}
	return ""
}
