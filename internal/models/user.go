package models

import (
	"time"
)

// User owns boards and everything on them. The password digest is write-only
// and never appears in a serialized resource.
type User struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	Email           string `gorm:"size:255;not null;uniqueIndex"`
	PasswordDigest  string `gorm:"size:255;not null"`
	AllowEmails     bool   `gorm:"not null;default:false"`
	IOSShareBoardID *uint64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccessToken is the opaque bearer credential consumed by the current-user
// resolver. Token issuance happens outside this service.
type AccessToken struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index"`
	Token     string `gorm:"size:255;not null;uniqueIndex"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

// APIKey authenticates the share and link ingestion endpoints.
type APIKey struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index"`
	Key       string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for APIKey
func (APIKey) TableName() string {
	return "api_keys"
}
