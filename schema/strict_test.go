package schema

import (
	"testing"
)

func TestValidateResult(t *testing.T) {
	s, err := Parse([]byte(`{"name": "string", "age": "number", "active": "boolean"}`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		result  map[string]any
		wantErr bool
	}{
		{
			"all typed correctly",
			map[string]any{"name": "Ada", "age": 36, "active": true},
			false,
		},
		{
			"nulls accepted for unresolved fields",
			map[string]any{"name": nil, "age": nil, "active": nil},
			false,
		},
		{
			"extraneous field accepted",
			map[string]any{"name": "Ada", "age": 36, "active": true, "note": "extra"},
			false,
		},
		{
			"wrong type rejected",
			map[string]any{"name": "Ada", "age": "thirty-six", "active": true},
			true,
		},
		{
			"missing declared field rejected",
			map[string]any{"name": "Ada", "age": 36},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateResult(tt.result)
			if tt.wantErr && err == nil {
				t.Error("Expected a validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}
