// Seeds a development database with a demo account: one board of sample
// cards and one board configured for share/link ingestion. Prints the
// minted access token and API key for use against the running server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"cardbase/data"
	"cardbase/internal/config"
	"cardbase/internal/database"
	"cardbase/internal/models"
	"cardbase/internal/store"
)

type seedFile struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
	Boards []seedBoard `json:"boards"`
}

type seedBoard struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Share *struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"share"`
	Elements []seedElement       `json:"elements"`
	Cards    []map[string]string `json:"cards"`
}

type seedElement struct {
	Name          string `json:"name"`
	DataType      string `json:"data-type"`
	ShowInSummary bool   `json:"show-in-summary"`
}

func main() {
	// Local .env files are optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var seeds seedFile
	if err := json.Unmarshal(data.Seeds, &seeds); err != nil {
		log.Fatalf("Failed to parse seed data: %v", err)
	}

	st := store.New(db)
	if err := run(st, &seeds); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func run(st *store.Store, seeds *seedFile) error {
	user := models.User{Email: seeds.User.Email}
	if err := st.CreateUser(&user, seeds.User.Password); err != nil {
		var verrs store.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("user %s already seeded or invalid: %w", seeds.User.Email, err)
		}
		return err
	}

	for i := range seeds.Boards {
		if err := seedOneBoard(st, &user, &seeds.Boards[i]); err != nil {
			return err
		}
	}

	token, err := st.CreateAccessToken(user.ID)
	if err != nil {
		return err
	}
	apiKey, err := st.CreateAPIKey(user.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded user:  %s\n", user.Email)
	fmt.Printf("Access token: %s\n", token.Token)
	fmt.Printf("API key:      %s\n", apiKey.Key)
	return nil
}

func seedOneBoard(st *store.Store, user *models.User, seed *seedBoard) error {
	board := models.Board{
		UserID: user.ID,
		Name:   seed.Name,
		Icon:   seed.Icon,
	}
	if err := st.CreateBoardWithDefaults(&board); err != nil {
		return err
	}

	// Card values are keyed by element id, so the elements go in first and
	// the seed file's name-keyed values are remapped through them.
	fieldKeys := make(map[string]string, len(seed.Elements))
	for _, def := range seed.Elements {
		element := models.Element{
			UserID:        user.ID,
			BoardID:       board.ID,
			Name:          def.Name,
			ElementType:   models.ElementTypeField,
			DataType:      def.DataType,
			ShowInSummary: def.ShowInSummary,
		}
		if err := st.CreateElement(&element); err != nil {
			return err
		}
		fieldKeys[def.Name] = element.FieldKey()
	}

	if seed.Share != nil {
		board.Options["share"] = map[string]interface{}{
			"url-field":   fieldKeys[seed.Share.URL],
			"title-field": fieldKeys[seed.Share.Title],
		}
		if err := st.UpdateBoard(&board); err != nil {
			return err
		}
	}

	for _, values := range seed.Cards {
		fieldValues := make(map[string]interface{}, len(values))
		for name, value := range values {
			key, ok := fieldKeys[name]
			if !ok {
				return fmt.Errorf("board %q: card references unknown element %q", seed.Name, name)
			}
			fieldValues[key] = value
		}
		card := models.Card{
			UserID:      user.ID,
			BoardID:     board.ID,
			FieldValues: fieldValues,
		}
		if err := st.CreateCard(&card); err != nil {
			return err
		}
	}
	return nil
}
