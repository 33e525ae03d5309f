package handlers

import (
	"slices"

	"cardbase/internal/jsonapi"
	"cardbase/internal/models"
	"cardbase/internal/store"

	"github.com/gofiber/fiber/v2"
)

// originalIcons is the closed set backing the basic icon attribute. Icons
// outside this set surface as null there and only through icon-extended.
var originalIcons = []string{
	"baseball",
	"bed",
	"book",
	"chart",
	"checkbox",
	"food",
	"gamepad",
	"link",
	"map-marker",
	"medical-bag",
	"money",
	"scale",
	"television",
	"tree",
}

// BoardsHandler serves the boards resource.
type BoardsHandler struct {
	Store *store.Store
}

// Index handles GET /boards
func (h *BoardsHandler) Index(c *fiber.Ctx) error {
	user := currentUser(c)

	boards, err := h.Store.ListBoards(user.ID)
	if err != nil {
		return renderStoreError(c, err)
	}

	data := make([]jsonapi.Resource, len(boards))
	for i := range boards {
		data[i] = serializeBoard(&boards[i])
	}
	return renderData(c, fiber.StatusOK, data)
}

// Show handles GET /boards/:id
func (h *BoardsHandler) Show(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	board, err := h.Store.FindBoard(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeBoard(board))
}

// Create handles POST /boards. A new board always gets one "All Cards"
// column and one empty card; the three writes are atomic.
func (h *BoardsHandler) Create(c *fiber.Ctx) error {
	user := currentUser(c)

	request, errDoc := jsonapi.ParseRequest(c.Body(), "boards", false, "")
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}
	attrs := request.Attributes

	icon := stringAttr(attrs, "icon-extended")
	if icon == "" {
		icon = stringAttr(attrs, "icon")
	}

	board := models.Board{
		UserID:      user.ID,
		Name:        stringAttr(attrs, "name"),
		Icon:        icon,
		ColorTheme:  stringAttr(attrs, "color-theme"),
		FavoritedAt: timeAttr(attrs, "favorited-at"),
		Options:     mapAttr(attrs, "options"),
	}

	if err := h.Store.CreateBoardWithDefaults(&board); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusCreated, serializeBoard(&board))
}

// Update handles PATCH /boards/:id. Only attributes present in the payload
// are applied.
func (h *BoardsHandler) Update(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	board, err := h.Store.FindBoard(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	request, errDoc := jsonapi.ParseRequest(c.Body(), "boards", true, c.Params("id"))
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}
	attrs := request.Attributes

	if _, ok := attrs["name"]; ok {
		board.Name = stringAttr(attrs, "name")
	}
	_, hasIcon := attrs["icon"]
	_, hasIconExtended := attrs["icon-extended"]
	if hasIcon || hasIconExtended {
		icon := stringAttr(attrs, "icon-extended")
		if icon == "" {
			icon = stringAttr(attrs, "icon")
		}
		board.Icon = icon
	}
	if _, ok := attrs["color-theme"]; ok {
		board.ColorTheme = stringAttr(attrs, "color-theme")
	}
	if _, ok := attrs["favorited-at"]; ok {
		board.FavoritedAt = timeAttr(attrs, "favorited-at")
	}
	if _, ok := attrs["options"]; ok {
		board.Options = mapAttr(attrs, "options")
	}

	if err := h.Store.UpdateBoard(board); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeBoard(board))
}

// Destroy handles DELETE /boards/:id, cascading over the board's cards,
// columns, and elements.
func (h *BoardsHandler) Destroy(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	board, err := h.Store.FindBoard(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	if err := h.Store.DeleteBoard(board); err != nil {
		return renderStoreError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func serializeBoard(board *models.Board) jsonapi.Resource {
	var icon interface{}
	if slices.Contains(originalIcons, board.Icon) {
		icon = board.Icon
	}

	var favoritedAt interface{}
	if board.FavoritedAt != nil {
		favoritedAt = board.FavoritedAt
	}

	return jsonapi.Resource{
		Type: "boards",
		ID:   externalID(board.ID),
		Attributes: map[string]interface{}{
			"name":          nullable(board.Name),
			"icon":          icon,
			"icon-extended": nullable(board.Icon),
			"color-theme":   nullable(board.ColorTheme),
			"favorited-at":  favoritedAt,
			"options":       board.Options,
		},
	}
}
