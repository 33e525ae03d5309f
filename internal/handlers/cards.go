package handlers

import (
	"cardbase/internal/jsonapi"
	"cardbase/internal/models"
	"cardbase/internal/store"
	"cardbase/internal/webhook"

	"github.com/gofiber/fiber/v2"
)

// CardsHandler serves the cards resource.
type CardsHandler struct {
	Store   *store.Store
	Webhook *webhook.Client
}

// Index handles GET /boards/:id/cards
func (h *CardsHandler) Index(c *fiber.Ctx) error {
	user := currentUser(c)

	boardID, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	board, err := h.Store.FindBoard(user.ID, boardID)
	if err != nil {
		return renderStoreError(c, err)
	}

	cards, err := h.Store.ListCards(user.ID, board.ID)
	if err != nil {
		return renderStoreError(c, err)
	}

	data := make([]jsonapi.Resource, len(cards))
	for i := range cards {
		data[i] = serializeCard(&cards[i])
	}
	return renderData(c, fiber.StatusOK, data)
}

// Show handles GET /cards/:id
func (h *CardsHandler) Show(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	card, err := h.Store.FindCard(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeCard(card))
}

// Create handles POST /cards. The payload must link a board the caller
// owns; a board belonging to someone else fails the business-rule check
// after payload validation and surfaces as a 422, indistinguishable from an
// absent board.
func (h *CardsHandler) Create(c *fiber.Ctx) error {
	user := currentUser(c)

	request, errDoc := jsonapi.ParseRequest(c.Body(), "cards", false, "")
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}

	boardID, ok := request.RelationshipID("board")
	if !ok {
		return renderErrors(c, jsonapi.MissingBoardRelationship())
	}

	board, err := h.Store.FindBoard(user.ID, boardID)
	if err != nil {
		return renderErrors(c, jsonapi.BoardNotFound())
	}

	card := models.Card{
		UserID:      user.ID,
		BoardID:     board.ID,
		FieldValues: mapAttr(request.Attributes, "field-values"),
	}
	if err := h.Store.CreateCard(&card); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusCreated, serializeCard(&card))
}

// Update handles PATCH /cards/:id. The board relationship is locked for the
// card's lifetime; any relationships key in the payload is rejected, even
// one naming the current board. After a successful save the card-update
// webhook runs, and a non-empty returned value map triggers one more write
// merging the returned values over the saved ones. The response reflects
// the post-webhook state.
func (h *CardsHandler) Update(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	card, err := h.Store.FindCard(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	request, errDoc := jsonapi.ParseRequest(c.Body(), "cards", true, c.Params("id"))
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}
	if request.HasRelationships {
		return renderErrors(c, jsonapi.RelationshipsLocked())
	}

	if _, ok := request.Attributes["field-values"]; ok {
		card.FieldValues = mapAttr(request.Attributes, "field-values")
	}

	if err := h.Store.UpdateCard(card); err != nil {
		return renderStoreError(c, err)
	}

	board, err := h.Store.FindBoard(user.ID, card.BoardID)
	if err != nil {
		return renderStoreError(c, err)
	}
	if err := syncCardWithWebhook(c, h.Store, h.Webhook, webhook.EventCardUpdate, card, board); err != nil {
		return renderErrors(c, jsonapi.UpstreamFailure(err))
	}
	return renderData(c, fiber.StatusOK, serializeCard(card))
}

// Destroy handles DELETE /cards/:id
func (h *CardsHandler) Destroy(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	card, err := h.Store.FindCard(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	if err := h.Store.DeleteCard(card); err != nil {
		return renderStoreError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func serializeCard(card *models.Card) jsonapi.Resource {
	return jsonapi.Resource{
		Type: "cards",
		ID:   card.ExternalID(),
		Attributes: map[string]interface{}{
			"field-values": card.FieldValues,
		},
	}
}
