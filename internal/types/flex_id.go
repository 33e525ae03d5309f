package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID is a resource id that can be unmarshaled from either a JSON number
// or a JSON string. Clients are inconsistent about which form they send in
// relationship linkage objects.
type FlexID uint64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Try unmarshaling as a number first
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n)
		return nil
	}

	// Try unmarshaling as a string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		val, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("FlexID: invalid id string %q: %w", s, err)
		}
		*f = FlexID(val)
		return nil
	}

	return fmt.Errorf("FlexID: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface. Ids always serialize
// in their external string form.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// Uint64 converts FlexID back to uint64.
func (f FlexID) Uint64() uint64 {
	return uint64(f)
}

// String renders the id in its external string form.
func (f FlexID) String() string {
	return strconv.FormatUint(uint64(f), 10)
}
