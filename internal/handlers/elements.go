package handlers

import (
	"cardbase/internal/jsonapi"
	"cardbase/internal/models"
	"cardbase/internal/store"

	"github.com/gofiber/fiber/v2"
)

// ElementsHandler serves the elements resource.
type ElementsHandler struct {
	Store *store.Store
}

// Index handles GET /boards/:id/elements
func (h *ElementsHandler) Index(c *fiber.Ctx) error {
	user := currentUser(c)

	boardID, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	board, err := h.Store.FindBoard(user.ID, boardID)
	if err != nil {
		return renderStoreError(c, err)
	}

	elements, err := h.Store.ListElements(user.ID, board.ID)
	if err != nil {
		return renderStoreError(c, err)
	}

	data := make([]jsonapi.Resource, len(elements))
	for i := range elements {
		data[i] = serializeElement(&elements[i])
	}
	return renderData(c, fiber.StatusOK, data)
}

// Show handles GET /elements/:id
func (h *ElementsHandler) Show(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	element, err := h.Store.FindElement(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeElement(element))
}

// Create handles POST /elements. The payload must link a board the caller
// owns; only attributes present in the payload are applied.
func (h *ElementsHandler) Create(c *fiber.Ctx) error {
	user := currentUser(c)

	request, errDoc := jsonapi.ParseRequest(c.Body(), "elements", false, "")
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

	element := models.Element{
		UserID:  user.ID,
		BoardID: board.ID,
	}
	applyElementAttributes(&element, request.Attributes)

	if err := h.Store.CreateElement(&element); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusCreated, serializeElement(&element))
}

// Update handles PATCH /elements/:id. The board relationship is locked.
func (h *ElementsHandler) Update(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	element, err := h.Store.FindElement(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	request, errDoc := jsonapi.ParseRequest(c.Body(), "elements", true, c.Params("id"))
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}
	if request.HasRelationships {
		return renderErrors(c, jsonapi.RelationshipsLocked())
	}

	applyElementAttributes(element, request.Attributes)

	if err := h.Store.UpdateElement(element); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeElement(element))
}

// Destroy handles DELETE /elements/:id. Deleting a field element purges its
// key from every card on the board; buttons never touch card values.
func (h *ElementsHandler) Destroy(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	element, err := h.Store.FindElement(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	if err := h.Store.DeleteElement(element); err != nil {
		return renderStoreError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func applyElementAttributes(element *models.Element, attrs map[string]interface{}) {
	if _, ok := attrs["name"]; ok {
		element.Name = stringAttr(attrs, "name")
	}
	if _, ok := attrs["element-type"]; ok {
		element.ElementType = stringAttr(attrs, "element-type")
	}
	if _, ok := attrs["data-type"]; ok {
		element.DataType = stringAttr(attrs, "data-type")
	}
	if _, ok := attrs["display-order"]; ok {
		element.DisplayOrder = intAttr(attrs, "display-order")
	}
	if _, ok := attrs["show-in-summary"]; ok {
		element.ShowInSummary = boolAttr(attrs, "show-in-summary")
	}
	if _, ok := attrs["show-conditions"]; ok {
		element.ShowConditions = listAttr(attrs, "show-conditions")
	}
	if _, ok := attrs["read-only"]; ok {
		element.ReadOnly = boolAttr(attrs, "read-only")
	}
	if _, ok := attrs["initial-value"]; ok {
		element.InitialValue = stringAttr(attrs, "initial-value")
	}
	if _, ok := attrs["options"]; ok {
		element.Options = mapAttr(attrs, "options")
	}
}

func serializeElement(element *models.Element) jsonapi.Resource {
	var displayOrder interface{}
	if element.DisplayOrder != nil {
		displayOrder = *element.DisplayOrder
	}

	return jsonapi.Resource{
		Type: "elements",
		ID:   externalID(element.ID),
		Attributes: map[string]interface{}{
			"name":            nullable(element.Name),
			"element-type":    nullable(element.ElementType),
			"data-type":       nullable(element.DataType),
			"display-order":   displayOrder,
			"show-in-summary": element.ShowInSummary,
			"show-conditions": element.ShowConditions,
			"read-only":       element.ReadOnly,
			"initial-value":   nullable(element.InitialValue),
			"options":         element.Options,
		},
	}
}
