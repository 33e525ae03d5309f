package jsonapi

// ContentType is the media type for every request and response envelope.
const ContentType = "application/vnd.api+json"

// Resource is one serialized entity inside a data envelope.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    map[string]interface{}  `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Relationship is a to-one relationship linkage.
type Relationship struct {
	Data *ResourceIdentifier `json:"data"`
}

// ResourceIdentifier names a related resource by type and external id.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}
