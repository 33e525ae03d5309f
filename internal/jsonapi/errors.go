package jsonapi

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrorObject is a single error inside an error envelope.
type ErrorObject struct {
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// ErrorDocument is the error envelope plus the HTTP status it renders with.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
	Status int           `json:"-"`
}

func badRequest(title string) *ErrorDocument {
	return &ErrorDocument{
		Status: fiber.StatusBadRequest,
		Errors: []ErrorObject{{Code: "400", Title: title}},
	}
}

// InvalidJSON rejects a request body that does not parse.
func InvalidJSON() *ErrorDocument {
	return badRequest("Invalid JSON")
}

// MissingData rejects a body without a top-level data key.
func MissingData() *ErrorDocument {
	return badRequest("Missing data key")
}

// InvalidType rejects a data object whose type is absent or wrong.
func InvalidType() *ErrorDocument {
	return badRequest("Invalid or missing type")
}

// IDMismatch rejects an update whose data.id differs from the path id.
func IDMismatch() *ErrorDocument {
	return badRequest("ID mismatch")
}

// MissingBoardRelationship rejects a create without a board linkage.
func MissingBoardRelationship() *ErrorDocument {
	return badRequest("Missing board relationship")
}

// RelationshipsLocked rejects any relationship mutation on update, even one
// that names the current board.
func RelationshipsLocked() *ErrorDocument {
	return badRequest("Updating relationships not allowed")
}

// NotFound covers both absent entities and entities owned by another user;
// the two cases are deliberately indistinguishable.
func NotFound() *ErrorDocument {
	return &ErrorDocument{
		Status: fiber.StatusNotFound,
		Errors: []ErrorObject{{Code: "404", Title: "Record not found"}},
	}
}

// BoardNotFound rejects a create whose board relationship names a board the
// caller does not own. The board lookup is a business-rule check that runs
// after payload validation, so it surfaces as a 422 rather than a 404.
func BoardNotFound() *ErrorDocument {
	return &ErrorDocument{
		Status: fiber.StatusUnprocessableEntity,
		Errors: []ErrorObject{{Detail: "board - not found"}},
	}
}

// UpstreamFailure surfaces a failed webhook call as a hard request failure.
func UpstreamFailure(err error) *ErrorDocument {
	return &ErrorDocument{
		Status: fiber.StatusBadGateway,
		Errors: []ErrorObject{{Code: "502", Title: "Webhook call failed", Detail: err.Error()}},
	}
}

// InternalError covers everything the taxonomy does not name.
func InternalError() *ErrorDocument {
	return &ErrorDocument{
		Status: fiber.StatusInternalServerError,
		Errors: []ErrorObject{{Code: "500", Title: "Internal server error"}},
	}
}

// ValidationError builds one 422 error object for a violated field, with a
// human-readable title and a "field - message" detail.
func ValidationError(field, message string) ErrorObject {
	return ErrorObject{
		Code:   "422",
		Title:  fmt.Sprintf("%s %s", humanize(field), message),
		Detail: fmt.Sprintf("%s - %s", field, message),
	}
}

// ValidationFailed wraps validation error objects in a 422 envelope.
func ValidationFailed(errs ...ErrorObject) *ErrorDocument {
	return &ErrorDocument{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errs,
	}
}

func humanize(field string) string {
	field = strings.ReplaceAll(field, "-", " ")
	field = strings.ReplaceAll(field, "_", " ")
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
