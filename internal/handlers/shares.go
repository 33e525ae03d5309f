package handlers

import (
	"cardbase/internal/jsonapi"
	"cardbase/internal/models"
	"cardbase/internal/store"
	"cardbase/internal/webhook"

	"github.com/gofiber/fiber/v2"
)

// shareBoardName is the fallback board for share ingestion when the user
// has no designated share board.
const shareBoardName = "Links"

// linkParams is the payload of the ingestion endpoints.
type linkParams struct {
	URL   string `json:"url" form:"url"`
	Title string `json:"title" form:"title"`
}

// SharesHandler ingests a shared URL+title into the caller's designated
// share board as a new card. Authentication is by API key.
type SharesHandler struct {
	Store   *store.Store
	Webhook *webhook.Client
}

// Create handles POST /shares
func (h *SharesHandler) Create(c *fiber.Ctx) error {
	user := currentUser(c)

	var params linkParams
	if err := c.BodyParser(&params); err != nil {
		return renderErrors(c, jsonapi.InvalidJSON())
	}

	board, err := h.shareBoard(user)
	if err != nil {
		return renderStoreError(c, err)
	}

	urlField := board.ShareField("url-field")
	titleField := board.ShareField("title-field")
	if urlField == "" || titleField == "" {
		return renderErrors(c, jsonapi.ValidationFailed(
			jsonapi.ValidationError("board", "is not configured for sharing"),
		))
	}

	card := models.Card{
		UserID:  user.ID,
		BoardID: board.ID,
		FieldValues: map[string]interface{}{
			urlField:   params.URL,
			titleField: params.Title,
		},
	}
	if err := h.Store.CreateCard(&card); err != nil {
		return renderStoreError(c, err)
	}

	if err := syncCardWithWebhook(c, h.Store, h.Webhook, webhook.EventCardCreate, &card, board); err != nil {
		return renderErrors(c, jsonapi.UpstreamFailure(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// shareBoard resolves the target board: the user's designated ios share
// board when set, otherwise the user's "Links" board.
func (h *SharesHandler) shareBoard(user *models.User) (*models.Board, error) {
	if user.IOSShareBoardID != nil {
		return h.Store.FindBoard(user.ID, *user.IOSShareBoardID)
	}
	return h.Store.FindBoardByName(user.ID, shareBoardName)
}

// syncCardWithWebhook runs the configured webhook for the event and merges
// a non-empty returned value map over the card's saved field values.
func syncCardWithWebhook(c *fiber.Ctx, st *store.Store, client *webhook.Client, event string, card *models.Card, board *models.Board) error {
	if board.WebhookURL(event) == "" {
		return nil
	}

	elements, err := st.ListElements(card.UserID, card.BoardID)
	if err != nil {
		return err
	}

	values, err := client.Call(c.UserContext(), event, card, board, elements)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	merged := card.FieldValues
	if merged == nil {
		merged = map[string]interface{}{}
	}
	for key, value := range values {
		merged[key] = value
	}
	return st.UpdateCardFieldValues(card, merged)
}
