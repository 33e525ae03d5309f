package handlers

import (
	"cardbase/internal/jsonapi"
	"cardbase/internal/models"
	"cardbase/internal/store"

	"github.com/gofiber/fiber/v2"
)

// UsersHandler serves the users resource. Every authenticated operation is
// identity-checked: the path id must name the caller, and any other id
// resolves as not-found before any lookup keyed by it.
type UsersHandler struct {
	Store *store.Store
}

// isSelf reports whether the path id names the authenticated caller.
func isSelf(c *fiber.Ctx) bool {
	user := currentUser(c)
	return user != nil && c.Params("id") == externalID(user.ID)
}

// Show handles GET /users/:id
func (h *UsersHandler) Show(c *fiber.Ctx) error {
	if !isSelf(c) {
		return renderNotFound(c)
	}
	return renderData(c, fiber.StatusOK, serializeUser(currentUser(c)))
}

// Create handles POST /users, the only endpoint reachable without
// authentication. The allow-emails flag must be explicitly present; there
// is no implicit default.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	request, errDoc := jsonapi.ParseRequest(c.Body(), "users", false, "")
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}
	attrs := request.Attributes

	if _, ok := attrs["allow-emails"]; !ok {
		return renderErrors(c, jsonapi.ValidationFailed(
			jsonapi.ValidationError("allow-emails", "can't be blank"),
		))
	}

	user := models.User{
		Email:           stringAttr(attrs, "email"),
		AllowEmails:     boolAttr(attrs, "allow-emails"),
		IOSShareBoardID: idAttr(attrs, "ios-share-board-id"),
	}

	if err := h.Store.CreateUser(&user, stringAttr(attrs, "password")); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusCreated, serializeUser(&user))
}

// Update handles PATCH /users/:id. A new password replaces the stored
// digest; the plaintext is never persisted or logged.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	if !isSelf(c) {
		return renderNotFound(c)
	}
	user := currentUser(c)

	request, errDoc := jsonapi.ParseRequest(c.Body(), "users", true, c.Params("id"))
	if errDoc != nil {
		return renderErrors(c, errDoc)
	}
	attrs := request.Attributes

	if _, ok := attrs["allow-emails"]; ok {
		user.AllowEmails = boolAttr(attrs, "allow-emails")
	}
	if _, ok := attrs["ios-share-board-id"]; ok {
		user.IOSShareBoardID = idAttr(attrs, "ios-share-board-id")
	}

	if err := h.Store.UpdateUser(user, stringAttr(attrs, "password")); err != nil {
		return renderStoreError(c, err)
	}
	return renderData(c, fiber.StatusOK, serializeUser(user))
}

// Destroy handles DELETE /users/:id, cascading over every owned entity.
func (h *UsersHandler) Destroy(c *fiber.Ctx) error {
	if !isSelf(c) {
		return renderNotFound(c)
	}

	if err := h.Store.DeleteUser(currentUser(c)); err != nil {
		return renderStoreError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// serializeUser exposes only the safe attributes; email and credentials are
// never serialized.
func serializeUser(user *models.User) jsonapi.Resource {
	var shareBoardID interface{}
	if user.IOSShareBoardID != nil {
		shareBoardID = *user.IOSShareBoardID
	}

	return jsonapi.Resource{
		Type: "users",
		ID:   externalID(user.ID),
		Attributes: map[string]interface{}{
			"allow-emails":       user.AllowEmails,
			"ios-share-board-id": shareBoardID,
		},
	}
}
