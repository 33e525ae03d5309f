package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"cardbase/internal/jsonapi"
	"cardbase/internal/middleware"
	"cardbase/internal/models"
	"cardbase/internal/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// currentUser returns the user the auth middleware resolved for this request.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.CurrentUserKey).(*models.User)
	return user
}

// paramID parses a path id. Non-numeric ids behave like ids that match
// nothing.
func paramID(c *fiber.Ctx, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	return id, err == nil
}

func renderData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": data}, jsonapi.ContentType)
}

func renderErrors(c *fiber.Ctx, doc *jsonapi.ErrorDocument) error {
	return c.Status(doc.Status).JSON(doc, jsonapi.ContentType)
}

func renderNotFound(c *fiber.Ctx) error {
	return renderErrors(c, jsonapi.NotFound())
}

// renderStoreError maps store failures onto the wire taxonomy.
func renderStoreError(c *fiber.Ctx, err error) error {
	var validation store.ValidationErrors
	switch {
	case errors.Is(err, store.ErrNotFound):
		return renderNotFound(c)
	case errors.As(err, &validation):
		objects := make([]jsonapi.ErrorObject, len(validation))
		for i, fieldErr := range validation {
			objects[i] = jsonapi.ValidationError(fieldErr.Field, fieldErr.Message)
		}
		return renderErrors(c, jsonapi.ValidationFailed(objects...))
	default:
		return renderErrors(c, jsonapi.InternalError())
	}
}

// Attribute extraction helpers. PATCH semantics apply only keys present in
// the payload, so every helper is paired with a presence check at the call
// site.

func stringAttr(attrs map[string]interface{}, key string) string {
	value, _ := attrs[key].(string)
	return value
}

func intAttr(attrs map[string]interface{}, key string) *int {
	switch value := attrs[key].(type) {
	case float64:
		i := int(value)
		return &i
	case string:
		if i, err := strconv.Atoi(value); err == nil {
			return &i
		}
	}
	return nil
}

func boolAttr(attrs map[string]interface{}, key string) bool {
	value, _ := attrs[key].(bool)
	return value
}

func timeAttr(attrs map[string]interface{}, key string) *time.Time {
	raw, _ := attrs[key].(string)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func mapAttr(attrs map[string]interface{}, key string) datatypes.JSONMap {
	if value, ok := attrs[key].(map[string]interface{}); ok {
		return datatypes.JSONMap(value)
	}
	return datatypes.JSONMap{}
}

func listAttr(attrs map[string]interface{}, key string) datatypes.JSON {
	value, ok := attrs[key]
	if !ok || value == nil {
		return datatypes.JSON("[]")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

// idAttr accepts an id-valued attribute as a number or string.
func idAttr(attrs map[string]interface{}, key string) *uint64 {
	switch value := attrs[key].(type) {
	case float64:
		id := uint64(value)
		return &id
	case string:
		if id, err := strconv.ParseUint(value, 10, 64); err == nil {
			return &id
		}
	}
	return nil
}

// nullable maps the empty string to JSON null for attributes that were never
// set.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func externalID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
