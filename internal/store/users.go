package store

import (
	"regexp"

	"cardbase/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FindUser returns the user record by id. Handlers verify that the path id
// names the caller before this runs.
func (s *Store) FindUser(id uint64) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &user, nil
}

// CreateUser validates the signup attributes, derives the password digest,
// and persists the user. The plaintext password is never stored.
func (s *Store) CreateUser(user *models.User, password string) error {
	var errs ValidationErrors
	switch {
	case user.Email == "":
		errs = append(errs, FieldError{Field: "email", Message: "can't be blank"})
	case !emailPattern.MatchString(user.Email):
		errs = append(errs, FieldError{Field: "email", Message: "is invalid"})
	default:
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			errs = append(errs, FieldError{Field: "email", Message: "has already been taken"})
		}
	}
	if password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "can't be blank"})
	}
	if len(errs) > 0 {
		return errs
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordDigest = string(digest)
	return s.db.Create(user).Error
}

// UpdateUser persists the user, re-deriving the digest when a new password
// is supplied.
func (s *Store) UpdateUser(user *models.User, newPassword string) error {
	if newPassword != "" {
		digest, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordDigest = string(digest)
	}
	return s.db.Save(user).Error
}

// DeleteUser removes the user and cascades over every owned entity across
// all dependent types in one transaction.
func (s *Store) DeleteUser(user *models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Card{}, &models.Column{}, &models.Element{}, &models.Board{},
			&models.APIKey{}, &models.AccessToken{},
		} {
			if err := tx.Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
}
