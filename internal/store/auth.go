package store

import (
	"cardbase/internal/models"

	"github.com/google/uuid"
)

// ResolveAccessToken maps an opaque bearer token to its user. Revoked and
// unknown tokens resolve to ErrNotFound.
func (s *Store) ResolveAccessToken(token string) (*models.User, error) {
	var record models.AccessToken
	err := s.db.Where("token = ? AND revoked_at IS NULL", token).First(&record).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s.FindUser(record.UserID)
}

// ResolveAPIKey maps an API key to its user.
func (s *Store) ResolveAPIKey(key string) (*models.User, error) {
	var record models.APIKey
	err := s.db.Where("key = ?", key).First(&record).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s.FindUser(record.UserID)
}

// CreateAccessToken mints a new bearer token for the user.
func (s *Store) CreateAccessToken(userID uint64) (*models.AccessToken, error) {
	record := models.AccessToken{
		UserID: userID,
		Token:  uuid.NewString(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateAPIKey mints a new API key for the user.
func (s *Store) CreateAPIKey(userID uint64) (*models.APIKey, error) {
	record := models.APIKey{
		UserID: userID,
		Key:    uuid.NewString(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
