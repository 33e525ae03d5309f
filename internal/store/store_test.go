package store_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cardbase/internal/models"
	"cardbase/internal/store"
)

// setupTestStore creates a Store over an in-memory SQLite database.
func setupTestStore(t *testing.T) *store.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.APIKey{},
		&models.Board{},
		&models.Column{},
		&models.Element{},
		&models.Card{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return store.New(db)
}

func createTestUser(t *testing.T, st *store.Store, email string) *models.User {
	t.Helper()
	user := models.User{Email: email}
	require.NoError(t, st.CreateUser(&user, "password"))
	return &user
}

func TestCreateBoardWithDefaults(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "boards@example.com")

	board := models.Board{UserID: user.ID, Name: "Games"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	columns, err := st.ListColumns(user.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, store.DefaultColumnName, columns[0].Name)

	cards, err := st.ListCards(user.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Empty(t, cards[0].FieldValues)
}

func TestFindBoardScopesByOwner(t *testing.T) {
	st := setupTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")
	other := createTestUser(t, st, "other@example.com")

	board := models.Board{UserID: owner.ID, Name: "Private"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	_, err := st.FindBoard(owner.ID, board.ID)
	require.NoError(t, err)

	_, err = st.FindBoard(other.ID, board.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteBoardCascades(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "cascade@example.com")

	board := models.Board{UserID: user.ID, Name: "Doomed"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	element := models.Element{
		UserID:      user.ID,
		BoardID:     board.ID,
		Name:        "Title",
		ElementType: models.ElementTypeField,
	}
	require.NoError(t, st.CreateElement(&element))

	require.NoError(t, st.DeleteBoard(&board))

	_, err := st.FindBoard(user.ID, board.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	cards, err := st.ListCards(user.ID, board.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)

	_, err = st.FindElement(user.ID, element.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateElementValidation(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "elements@example.com")

	board := models.Board{UserID: user.ID, Name: "Schema"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	tests := []struct {
		name      string
		element   models.Element
		wantField string
		wantMsg   string
	}{
		{
			name:      "blank element type",
			element:   models.Element{UserID: user.ID, BoardID: board.ID},
			wantField: "element-type",
			wantMsg:   "can't be blank",
		},
		{
			name: "unknown element type",
			element: models.Element{
				UserID: user.ID, BoardID: board.ID, ElementType: "widget",
			},
			wantField: "element-type",
			wantMsg:   "is not included in the list",
		},
		{
			name: "unknown data type",
			element: models.Element{
				UserID: user.ID, BoardID: board.ID,
				ElementType: models.ElementTypeField, DataType: "currency",
			},
			wantField: "data-type",
			wantMsg:   "is not included in the list",
		},
		{
			name: "unknown initial value",
			element: models.Element{
				UserID: user.ID, BoardID: board.ID,
				ElementType: models.ElementTypeField, InitialValue: "yesterday",
			},
			wantField: "initial-value",
			wantMsg:   "is not included in the list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := st.CreateElement(&tt.element)
			var verrs store.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.Equal(t, tt.wantMsg, verrs[0].Message)
		})
	}
}

func TestDeleteFieldElementPurgesCardValues(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "purge@example.com")

	board := models.Board{UserID: user.ID, Name: "Games"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	title := models.Element{
		UserID: user.ID, BoardID: board.ID,
		Name: "Title", ElementType: models.ElementTypeField,
	}
	require.NoError(t, st.CreateElement(&title))
	publisher := models.Element{
		UserID: user.ID, BoardID: board.ID,
		Name: "Publisher", ElementType: models.ElementTypeField,
	}
	require.NoError(t, st.CreateElement(&publisher))

	card := models.Card{
		UserID:  user.ID,
		BoardID: board.ID,
		FieldValues: datatypes.JSONMap{
			title.FieldKey():     "Final Fantasy 7",
			publisher.FieldKey(): "Square Enix",
		},
	}
	require.NoError(t, st.CreateCard(&card))

	require.NoError(t, st.DeleteElement(&title))

	reloaded, err := st.FindCard(user.ID, card.ID)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.FieldValues, title.FieldKey())
	assert.Equal(t, "Square Enix", reloaded.FieldValues[publisher.FieldKey()])
}

func TestDeleteButtonElementLeavesCardValuesAlone(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "button@example.com")

	board := models.Board{UserID: user.ID, Name: "Games"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	button := models.Element{
		UserID: user.ID, BoardID: board.ID,
		Name: "Archive", ElementType: models.ElementTypeButton,
	}
	require.NoError(t, st.CreateElement(&button))

	// A stale value under the button's id stays put; only field elements
	// fan out on delete.
	card := models.Card{
		UserID:      user.ID,
		BoardID:     board.ID,
		FieldValues: datatypes.JSONMap{button.FieldKey(): "stale"},
	}
	require.NoError(t, st.CreateCard(&card))

	require.NoError(t, st.DeleteElement(&button))

	reloaded, err := st.FindCard(user.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "stale", reloaded.FieldValues[button.FieldKey()])
}

func TestUpdateCardFieldValues(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "values@example.com")

	board := models.Board{UserID: user.ID, Name: "Games"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	card := models.Card{UserID: user.ID, BoardID: board.ID}
	require.NoError(t, st.CreateCard(&card))

	require.NoError(t, st.UpdateCardFieldValues(&card, datatypes.JSONMap{"1": "merged"}))

	reloaded, err := st.FindCard(user.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "merged", reloaded.FieldValues["1"])
}

func TestCreateUserValidation(t *testing.T) {
	st := setupTestStore(t)
	createTestUser(t, st, "taken@example.com")

	tests := []struct {
		name      string
		email     string
		password  string
		wantField string
		wantMsg   string
	}{
		{name: "blank email", email: "", password: "pw", wantField: "email", wantMsg: "can't be blank"},
		{name: "invalid email", email: "not-an-email", password: "pw", wantField: "email", wantMsg: "is invalid"},
		{name: "duplicate email", email: "taken@example.com", password: "pw", wantField: "email", wantMsg: "has already been taken"},
		{name: "blank password", email: "new@example.com", password: "", wantField: "password", wantMsg: "can't be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := models.User{Email: tt.email}
			err := st.CreateUser(&user, tt.password)
			var verrs store.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.Equal(t, tt.wantMsg, verrs[0].Message)
		})
	}
}

func TestCreateUserNeverStoresPlaintext(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "digest@example.com")

	assert.NotEmpty(t, user.PasswordDigest)
	assert.NotEqual(t, "password", user.PasswordDigest)
}

func TestDeleteUserCascadesAcrossOwnedEntities(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "goner@example.com")
	survivor := createTestUser(t, st, "survivor@example.com")

	board := models.Board{UserID: user.ID, Name: "Mine"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))
	otherBoard := models.Board{UserID: survivor.ID, Name: "Theirs"}
	require.NoError(t, st.CreateBoardWithDefaults(&otherBoard))

	_, err := st.CreateAPIKey(user.ID)
	require.NoError(t, err)
	_, err = st.CreateAccessToken(user.ID)
	require.NoError(t, err)

	require.NoError(t, st.DeleteUser(user))

	_, err = st.FindUser(user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.FindBoard(user.ID, board.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The other tenant is untouched.
	_, err = st.FindBoard(survivor.ID, otherBoard.ID)
	assert.NoError(t, err)
}

func TestResolveAccessToken(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "token@example.com")

	token, err := st.CreateAccessToken(user.ID)
	require.NoError(t, err)

	resolved, err := st.ResolveAccessToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = st.ResolveAccessToken("unknown")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveAccessTokenRejectsRevoked(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "revoked@example.com")

	token, err := st.CreateAccessToken(user.ID)
	require.NoError(t, err)

	now := time.Now()
	token.RevokedAt = &now
	require.NoError(t, st.DB().Save(token).Error)

	_, err = st.ResolveAccessToken(token.Token)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveAPIKey(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "apikey@example.com")

	key, err := st.CreateAPIKey(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, key.Key)

	resolved, err := st.ResolveAPIKey(key.Key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestFindFieldElementByNameSkipsButtons(t *testing.T) {
	st := setupTestStore(t)
	user := createTestUser(t, st, "byname@example.com")

	board := models.Board{UserID: user.ID, Name: "Links"}
	require.NoError(t, st.CreateBoardWithDefaults(&board))

	button := models.Element{
		UserID: user.ID, BoardID: board.ID,
		Name: "URL", ElementType: models.ElementTypeButton,
	}
	require.NoError(t, st.CreateElement(&button))

	_, err := st.FindFieldElementByName(user.ID, board.ID, "URL")
	assert.ErrorIs(t, err, store.ErrNotFound)

	field := models.Element{
		UserID: user.ID, BoardID: board.ID,
		Name: "URL", ElementType: models.ElementTypeField,
	}
	require.NoError(t, st.CreateElement(&field))

	found, err := st.FindFieldElementByName(user.ID, board.ID, "URL")
	require.NoError(t, err)
	assert.Equal(t, field.ID, found.ID)
}
