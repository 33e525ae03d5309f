package handlers_test

import (
	"context"
	"io"
	"testing"

	"cardbase/internal/linkmeta"
	"cardbase/internal/models"
)

// stubParser returns canned link metadata.
type stubParser struct {
	link linkmeta.Link
	err  error
}

func (p stubParser) Parse(ctx context.Context, rawURL string) (linkmeta.Link, error) {
	return p.link, p.err
}

// seedShareBoard creates a board wired for share/link ingestion: URL and
// Title field elements plus the share options pointing at them.
func seedShareBoard(t *testing.T, env *testEnv, user *models.User, name string) (*models.Board, *models.Element, *models.Element) {
	t.Helper()

	board := models.Board{UserID: user.ID, Name: name}
	if err := env.store.CreateBoardWithDefaults(&board); err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	urlField := models.Element{
		UserID: user.ID, BoardID: board.ID,
		Name: "URL", ElementType: models.ElementTypeField, DataType: models.DataTypeText,
	}
	if err := env.store.CreateElement(&urlField); err != nil {
		t.Fatalf("Failed to create URL element: %v", err)
	}
	titleField := models.Element{
		UserID: user.ID, BoardID: board.ID,
		Name: "Title", ElementType: models.ElementTypeField, DataType: models.DataTypeText,
	}
	if err := env.store.CreateElement(&titleField); err != nil {
		t.Fatalf("Failed to create Title element: %v", err)
	}

	board.Options["share"] = map[string]interface{}{
		"url-field":   urlField.FieldKey(),
		"title-field": titleField.FieldKey(),
	}
	if err := env.store.UpdateBoard(&board); err != nil {
		t.Fatalf("Failed to configure board for sharing: %v", err)
	}
	return &board, &urlField, &titleField
}

func createAPIKey(t *testing.T, env *testEnv, userID uint64) string {
	t.Helper()
	key, err := env.store.CreateAPIKey(userID)
	if err != nil {
		t.Fatalf("Failed to create API key: %v", err)
	}
	return key.Key
}

func TestAuthRequiresBearerToken(t *testing.T) {
	env := setupTestApp(t)

	// No credentials at all.
	resp := env.request(t, "GET", "/boards", "", "")
	if resp.StatusCode != 401 {
		t.Fatalf("Expected status 401, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) > 0 {
		t.Errorf("Expected empty 401 body, got %s", body)
	}

	// A token nobody issued.
	resp = env.request(t, "GET", "/boards", "nonsense", "")
	if resp.StatusCode != 401 {
		t.Fatalf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestAccessTokenDoesNotOpenAPIKeyEndpoints(t *testing.T) {
	env := setupTestApp(t)
	_, token := env.createUserWithToken(t, "crossauth@example.com")

	resp := env.request(t, "POST", "/shares", token, `{"url": "https://example.com"}`)
	if resp.StatusCode != 401 {
		t.Fatalf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestUserCreateRequiresAllowEmails(t *testing.T) {
	env := setupTestApp(t)

	resp := env.request(t, "POST", "/users", "",
		`{"data": {"type": "users", "attributes": {"email": "new@example.com", "password": "secret"}}}`)
	if resp.StatusCode != 422 {
		t.Fatalf("Expected status 422, got %d", resp.StatusCode)
	}
	errObj := firstError(t, decodeBody(t, resp))
	if errObj["title"] != "Allow emails can't be blank" {
		t.Errorf("Unexpected title: %v", errObj)
	}
	if errObj["detail"] != "allow-emails - can't be blank" {
		t.Errorf("Unexpected detail: %v", errObj)
	}
}

func TestUserCreateOmitsCredentialsFromResponse(t *testing.T) {
	env := setupTestApp(t)

	resp := env.request(t, "POST", "/users", "",
		`{"data": {"type": "users", "attributes": {"email": "new@example.com", "password": "secret", "allow-emails": true}}}`)
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	attrs := dataAttributes(t, decodeBody(t, resp))
	if attrs["allow-emails"] != true {
		t.Errorf("Expected allow-emails true, got %v", attrs["allow-emails"])
	}
	for _, secret := range []string{"email", "password", "password-digest"} {
		if _, ok := attrs[secret]; ok {
			t.Errorf("Expected %s to be absent from the serialized user", secret)
		}
	}
}

func TestUserCreateValidatesEmail(t *testing.T) {
	env := setupTestApp(t)
	env.createUserWithToken(t, "taken@example.com")

	tests := []struct {
		name       string
		attributes string
		wantDetail string
	}{
		{
			name:       "blank email",
			attributes: `{"password": "secret", "allow-emails": false}`,
			wantDetail: "email - can't be blank",
		},
		{
			name:       "invalid email",
			attributes: `{"email": "nope", "password": "secret", "allow-emails": false}`,
			wantDetail: "email - is invalid",
		},
		{
			name:       "duplicate email",
			attributes: `{"email": "taken@example.com", "password": "secret", "allow-emails": false}`,
			wantDetail: "email - has already been taken",
		},
		{
			name:       "blank password",
			attributes: `{"email": "ok@example.com", "allow-emails": false}`,
			wantDetail: "password - can't be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.request(t, "POST", "/users", "",
				`{"data": {"type": "users", "attributes": `+tt.attributes+`}}`)
			if resp.StatusCode != 422 {
				t.Fatalf("Expected status 422, got %d", resp.StatusCode)
			}
			errObj := firstError(t, decodeBody(t, resp))
			if errObj["detail"] != tt.wantDetail {
				t.Errorf("Expected detail %q, got %v", tt.wantDetail, errObj["detail"])
			}
		})
	}
}

func TestUserIdentityScoping(t *testing.T) {
	env := setupTestApp(t)
	env.createUserWithToken(t, "me@example.com")
	_, otherToken := env.createUserWithToken(t, "them@example.com")

	// The other user exists, but any id that is not the caller's own
	// resolves as not-found before anything else happens.
	resp := env.request(t, "GET", "/users/1", otherToken, "")
	if resp.StatusCode != 404 {
		t.Fatalf("Expected status 404, got %d", resp.StatusCode)
	}

	resp = env.request(t, "PATCH", "/users/1", otherToken,
		`{"data": {"type": "users", "id": "1", "attributes": {"allow-emails": true}}}`)
	if resp.StatusCode != 404 {
		t.Fatalf("Expected status 404, got %d", resp.StatusCode)
	}

	resp = env.request(t, "DELETE", "/users/1", otherToken, "")
	if resp.StatusCode != 404 {
		t.Fatalf("Expected status 404, got %d", resp.StatusCode)
	}

	// The caller's own id works.
	resp = env.request(t, "GET", "/users/2", otherToken, "")
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestUserDestroyInvalidatesToken(t *testing.T) {
	env := setupTestApp(t)
	_, token := env.createUserWithToken(t, "goner@example.com")

	resp := env.request(t, "DELETE", "/users/1", token, "")
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	// The cascade took the access token with it.
	resp = env.request(t, "GET", "/boards", token, "")
	if resp.StatusCode != 401 {
		t.Fatalf("Expected status 401 after account deletion, got %d", resp.StatusCode)
	}
}

func TestShareCreatesCardOnConfiguredBoard(t *testing.T) {
	env := setupTestApp(t)
	user, _ := env.createUserWithToken(t, "share@example.com")
	board, urlField, titleField := seedShareBoard(t, env, user, "Links")
	apiKey := createAPIKey(t, env, user.ID)

	resp := env.request(t, "POST", "/shares", apiKey,
		`{"url": "https://example.com/article", "title": "An Article"}`)
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	cards, err := env.store.ListCards(user.ID, board.ID)
	if err != nil {
		t.Fatalf("Failed to list cards: %v", err)
	}
	// One default card plus the shared one.
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	shared := cards[1]
	if shared.FieldValues[urlField.FieldKey()] != "https://example.com/article" {
		t.Errorf("Expected url stored under the url element, got %v", shared.FieldValues)
	}
	if shared.FieldValues[titleField.FieldKey()] != "An Article" {
		t.Errorf("Expected title stored under the title element, got %v", shared.FieldValues)
	}
}

func TestShareRejectsUnconfiguredBoard(t *testing.T) {
	env := setupTestApp(t)
	user, _ := env.createUserWithToken(t, "unconfigured@example.com")
	apiKey := createAPIKey(t, env, user.ID)

	// A "Links" board without share options cannot receive shares.
	board := models.Board{UserID: user.ID, Name: "Links"}
	if err := env.store.CreateBoardWithDefaults(&board); err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	resp := env.request(t, "POST", "/shares", apiKey, `{"url": "https://example.com"}`)
	if resp.StatusCode != 422 {
		t.Fatalf("Expected status 422, got %d", resp.StatusCode)
	}
	errObj := firstError(t, decodeBody(t, resp))
	if errObj["detail"] != "board - is not configured for sharing" {
		t.Errorf("Unexpected error: %v", errObj)
	}
}

func TestShareUsesDesignatedBoard(t *testing.T) {
	env := setupTestApp(t)
	user, _ := env.createUserWithToken(t, "designated@example.com")

	// Two candidate boards; the user's designated share board wins over the
	// "Links" name fallback.
	seedShareBoard(t, env, user, "Links")
	designated, urlField, _ := seedShareBoard(t, env, user, "Reading List")
	user.IOSShareBoardID = &designated.ID
	if err := env.store.UpdateUser(user, ""); err != nil {
		t.Fatalf("Failed to set share board: %v", err)
	}

	apiKey := createAPIKey(t, env, user.ID)
	resp := env.request(t, "POST", "/shares", apiKey, `{"url": "https://example.com/saved"}`)
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	cards, _ := env.store.ListCards(user.ID, designated.ID)
	if len(cards) != 2 {
		t.Fatalf("Expected the card on the designated board, got %d cards", len(cards))
	}
	if cards[1].FieldValues[urlField.FieldKey()] != "https://example.com/saved" {
		t.Errorf("Unexpected card values: %v", cards[1].FieldValues)
	}
}

func TestLinkIngestionCreatesCardWithResolvedMetadata(t *testing.T) {
	env := setupTestApp(t)
	user, _ := env.createUserWithToken(t, "links@example.com")
	board, urlField, titleField := seedShareBoard(t, env, user, "Links")
	apiKey := createAPIKey(t, env, user.ID)

	env.links.Parser = stubParser{link: linkmeta.Link{
		URL:   "https://example.com/canonical",
		Title: "Resolved Title",
	}}

	resp := env.request(t, "POST", "/custom/links", apiKey,
		`{"url": "https://example.com/shortened"}`)
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	cards, _ := env.store.ListCards(user.ID, board.ID)
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	created := cards[1]
	if created.FieldValues[urlField.FieldKey()] != "https://example.com/canonical" {
		t.Errorf("Expected the canonical url, got %v", created.FieldValues)
	}
	if created.FieldValues[titleField.FieldKey()] != "Resolved Title" {
		t.Errorf("Expected the resolved title, got %v", created.FieldValues)
	}
}

func TestLinkIngestionFallsBackOnParseFailure(t *testing.T) {
	env := setupTestApp(t)
	user, _ := env.createUserWithToken(t, "fallback@example.com")
	board, urlField, titleField := seedShareBoard(t, env, user, "Links")
	apiKey := createAPIKey(t, env, user.ID)

	env.links.Parser = stubParser{err: context.DeadlineExceeded}

	resp := env.request(t, "POST", "/custom/links", apiKey,
		`{"url": "https://example.com/unreachable", "title": "My Title"}`)
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	cards, _ := env.store.ListCards(user.ID, board.ID)
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	created := cards[1]
	if created.FieldValues[urlField.FieldKey()] != "https://example.com/unreachable" {
		t.Errorf("Expected the submitted url, got %v", created.FieldValues)
	}
	if created.FieldValues[titleField.FieldKey()] != "My Title" {
		t.Errorf("Expected the submitted title, got %v", created.FieldValues)
	}
}

// Columns accept the hyphenated wire spellings for their opaque specs.
func TestColumnWireAttributeSpellings(t *testing.T) {
	env := setupTestApp(t)
	owner, token := env.createUserWithToken(t, "spelling@example.com")

	board := models.Board{UserID: owner.ID, Name: "Board"}
	if err := env.store.CreateBoardWithDefaults(&board); err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	resp := env.request(t, "POST", "/columns", token,
		`{"data": {"type": "columns", "attributes": {
			"name": "Soon",
			"card-sort-order": {"1": "asc"},
			"card-inclusion-conditions": [{"field": "1", "query": "empty"}],
			"card-grouping": {"field": "2"},
			"summary": {"function": "count"}
		}, "relationships": {"board": {"data": {"type": "boards", "id": "1"}}}}}`)
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	attrs := dataAttributes(t, decodeBody(t, resp))
	sortOrder, ok := attrs["card-sort-order"].(map[string]interface{})
	if !ok || sortOrder["1"] != "asc" {
		t.Errorf("Expected card-sort-order to round-trip, got %v", attrs["card-sort-order"])
	}
	conditions, ok := attrs["card-inclusion-conditions"].([]interface{})
	if !ok || len(conditions) != 1 {
		t.Errorf("Expected card-inclusion-conditions to round-trip, got %v", attrs["card-inclusion-conditions"])
	}
	grouping, ok := attrs["card-grouping"].(map[string]interface{})
	if !ok || grouping["field"] != "2" {
		t.Errorf("Expected card-grouping to round-trip, got %v", attrs["card-grouping"])
	}
}
