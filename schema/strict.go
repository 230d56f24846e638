package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema builds a JSON-Schema (draft 2020-12 subset) as a generic map from
// the declared fields. Every field is required but nullable, since unresolved
// fields are reported as explicit nulls. additionalProperties stays open:
// extraneous model fields are kept in the result, not rejected.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.fields))
	required := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		var prop map[string]any
		switch f.Type {
		case TypeDate:
			prop = map[string]any{"type": []any{"string", "null"}, "format": "date"}
		case TypeNumber:
			prop = map[string]any{"type": []any{"number", "null"}}
		case TypeBoolean:
			prop = map[string]any{"type": []any{"boolean", "null"}}
		case TypeArray:
			prop = map[string]any{"type": []any{"array", "null"}}
		case TypeObject:
			prop = map[string]any{"type": []any{"object", "null"}}
		default:
			prop = map[string]any{"type": []any{"string", "null"}}
		}
		props[f.Name] = prop
		required = append(required, f.Name)
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// ValidateResult validates an extraction result against the generated JSON
// Schema. Used only when strict validation is enabled; the default pipeline
// behavior is silent best-effort coercion.
func (s Schema) ValidateResult(result map[string]any) error {
	schemaBytes, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through JSON so coerced Go values (int, etc.) validate the
	// same way a decoded response would.
	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}
