package handlers

import (
	"cardbase/internal/jsonapi"
	"cardbase/internal/models"
	"cardbase/internal/store"

	"github.com/gofiber/fiber/v2"
)

// ColumnsHandler serves the columns resource. A column's filter, sort,
// grouping, and summary specs pass through verbatim; nothing here evaluates
// them.
type ColumnsHandler struct {
	Store *store.Store
}

// Index handles GET /boards/:id/columns
func (h *ColumnsHandler) Index(c *fiber.Ctx) error {
	user := currentUser(c)

	boardID, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	board, err := h.Store.FindBoard(user.ID, boardID)
	if err != nil {
		return renderStoreError(c, err)
	}

	columns, err := h.Store.ListColumns(user.ID, board.ID)
	if err != nil {
		return renderStoreError(c, err)
	}

	data := make([]jsonapi.Resource, len(columns))
	for i := range columns {
		data[i] = serializeColumn(&columns[i])
	}
	return renderData(c, fiber.StatusOK, data)
}

// Show handles GET /columns/:id
func (h *ColumnsHandler) Show(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	column, err := h.Store.FindColumn(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeColumn(column))
}

// Create handles POST /columns. The payload must link a board the caller
// owns.
func (h *ColumnsHandler) Create(c *fiber.Ctx) error {
	user := currentUser(c)

	request, errDoc := jsonapi.ParseRequest(c.Body(), "columns", false, "")
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

	attrs := request.Attributes
	column := models.Column{
		UserID:                  user.ID,
		BoardID:                 board.ID,
		Name:                    stringAttr(attrs, "name"),
		DisplayOrder:            intAttr(attrs, "display-order"),
		SortOrder:               mapAttr(attrs, "card-sort-order"),
		CardInclusionConditions: listAttr(attrs, "card-inclusion-conditions"),
		CardGrouping:            mapAttr(attrs, "card-grouping"),
		Summary:                 mapAttr(attrs, "summary"),
	}
	if err := h.Store.CreateColumn(&column); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusCreated, serializeColumn(&column))
}

// Update handles PATCH /columns/:id. The board relationship is locked.
func (h *ColumnsHandler) Update(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	column, err := h.Store.FindColumn(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	request, errDoc := jsonapi.ParseRequest(c.Body(), "columns", true, c.Params("id"))
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}
	if request.HasRelationships {
		return renderErrors(c, jsonapi.RelationshipsLocked())
	}

	attrs := request.Attributes
	if _, ok := attrs["name"]; ok {
		column.Name = stringAttr(attrs, "name")
	}
	if _, ok := attrs["display-order"]; ok {
		column.DisplayOrder = intAttr(attrs, "display-order")
	}
	if _, ok := attrs["card-sort-order"]; ok {
		column.SortOrder = mapAttr(attrs, "card-sort-order")
	}
	if _, ok := attrs["card-inclusion-conditions"]; ok {
		column.CardInclusionConditions = listAttr(attrs, "card-inclusion-conditions")
	}
	if _, ok := attrs["card-grouping"]; ok {
		column.CardGrouping = mapAttr(attrs, "card-grouping")
	}
	if _, ok := attrs["summary"]; ok {
		column.Summary = mapAttr(attrs, "summary")
	}

	if err := h.Store.UpdateColumn(column); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeColumn(column))
}

// Destroy handles DELETE /columns/:id
func (h *ColumnsHandler) Destroy(c *fiber.Ctx) error {
	user := currentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		return renderNotFound(c)
	}

	column, err := h.Store.FindColumn(user.ID, id)
	if err != nil {
		return renderStoreError(c, err)
	}

	if err := h.Store.DeleteColumn(column); err != nil {
		return renderStoreError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func serializeColumn(column *models.Column) jsonapi.Resource {
	var displayOrder interface{}
	if column.DisplayOrder != nil {
		displayOrder = *column.DisplayOrder
	}

	return jsonapi.Resource{
		Type: "columns",
		ID:   externalID(column.ID),
		Attributes: map[string]interface{}{
			"name":                      nullable(column.Name),
			"display-order":             displayOrder,
			"card-sort-order":           column.SortOrder,
			"card-inclusion-conditions": column.CardInclusionConditions,
			"card-grouping":             column.CardGrouping,
			"summary":                   column.Summary,
		},
	}
}
