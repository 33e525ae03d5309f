package jsonapi

import (
	"bytes"
	"encoding/json"
	"strconv"

	"cardbase/internal/types"
)

// RequestData is the validated payload of an inbound envelope. Attributes is
// never nil. HasRelationships reports whether the data object carried a
// non-null relationships key at all; updates use it to lock relationships
// regardless of content.
type RequestData struct {
	Attributes       map[string]interface{}
	Relationships    map[string]Relationship
	HasRelationships bool
}

// RelationshipID returns the linked id for a named to-one relationship.
func (r *RequestData) RelationshipID(name string) (uint64, bool) {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(rel.Data.ID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// rawRelationship mirrors Relationship but keeps the id flexible, since
// clients send linkage ids as either strings or numbers.
type rawRelationship struct {
	Data *struct {
		Type string       `json:"type"`
		ID   types.FlexID `json:"id"`
	} `json:"data"`
}

// ParseRequest validates an inbound envelope against an expected resource
// type. Checks run in order and short-circuit on the first failure:
// body parses as JSON, a top-level data key exists, data is an object whose
// type matches exactly, and (for updates) data.id equals the path id in its
// external string form. On success the attributes map (defaulted to empty)
// and relationships are returned for the caller to apply selectively.
func ParseRequest(body []byte, expectedType string, requireID bool, expectedID string) (*RequestData, *ErrorDocument) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, InvalidJSON()
	}

	rawData, ok := envelope["data"]
	if !ok {
		return nil, MissingData()
	}

	var data struct {
		Type          string                     `json:"type"`
		ID            interface{}                `json:"id"`
		Attributes    map[string]interface{}     `json:"attributes"`
		Relationships map[string]rawRelationship `json:"relationships"`
	}
	if err := json.Unmarshal(rawData, &data); err != nil || data.Type != expectedType {
		return nil, InvalidType()
	}

	if requireID {
		id, ok := data.ID.(string)
		if !ok || id != expectedID {
			return nil, IDMismatch()
		}
	}

	attributes := data.Attributes
	if attributes == nil {
		attributes = map[string]interface{}{}
	}

	relationships := make(map[string]Relationship, len(data.Relationships))
	for name, rel := range data.Relationships {
		out := Relationship{}
		if rel.Data != nil {
			out.Data = &ResourceIdentifier{Type: rel.Data.Type, ID: rel.Data.ID.String()}
		}
		relationships[name] = out
	}

	// A literal null relationships value does not count as present.
	hasRelationships := false
	if raw, ok := relationshipsRaw(rawData); ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		hasRelationships = true
	}

	return &RequestData{
		Attributes:       attributes,
		Relationships:    relationships,
		HasRelationships: hasRelationships,
	}, nil
}

func relationshipsRaw(data json.RawMessage) (json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, false
	}
	raw, ok := fields["relationships"]
	return raw, ok
}
