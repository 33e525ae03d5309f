// Seed helpers for tests that need a tenant with credentials in place.
package helpers

import (
	"testing"

	"gorm.io/gorm"

	"cardbase/internal/models"
	"cardbase/internal/store"
)

// Account is a seeded tenant with both credential kinds.
type Account struct {
	User   *models.User
	Token  string
	APIKey string
}

// SeedAccount creates a user with an access token and an API key.
func SeedAccount(t *testing.T, db *gorm.DB, email string) *Account {
	t.Helper()
	st := store.New(db)

	user := models.User{Email: email}
	if err := st.CreateUser(&user, "password"); err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}

	token, err := st.CreateAccessToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to seed access token: %v", err)
	}

	apiKey, err := st.CreateAPIKey(user.ID)
	if err != nil {
		t.Fatalf("Failed to seed API key: %v", err)
	}

	return &Account{User: &user, Token: token.Token, APIKey: apiKey.Key}
}

// SeedBoard creates a board with its defaults for the account.
func SeedBoard(t *testing.T, db *gorm.DB, account *Account, name string) *models.Board {
	t.Helper()
	st := store.New(db)

	board := models.Board{UserID: account.User.ID, Name: name}
	if err := st.CreateBoardWithDefaults(&board); err != nil {
		t.Fatalf("Failed to seed board %s: %v", name, err)
	}
	return &board
}

// CleanTables truncates every application table between subtests.
func CleanTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, model := range []interface{}{
		&models.Card{}, &models.Column{}, &models.Element{}, &models.Board{},
		&models.APIKey{}, &models.AccessToken{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			t.Fatalf("Failed to clean table for %T: %v", model, err)
		}
	}
}
