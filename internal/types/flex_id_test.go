package types_test

import (
	"encoding/json"
	"testing"

	"cardbase/internal/types"
)

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{name: "number", input: `17`, want: 17},
		{name: "string", input: `"17"`, want: 17},
		{name: "null", input: `null`, want: 0},
		{name: "non numeric string", input: `"abc"`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id types.FlexID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s, got id %d", tt.input, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.Uint64() != tt.want {
				t.Errorf("expected %d, got %d", tt.want, id.Uint64())
			}
		})
	}
}

func TestFlexIDMarshalUsesStringForm(t *testing.T) {
	out, err := json.Marshal(types.FlexID(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `"42"` {
		t.Errorf(`expected "42", got %s`, out)
	}
}
