// Package schema models the caller-supplied field schema: a flat, ordered
// mapping from field names to primitive type tags.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FieldType is a declared type tag for a schema field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

var validTypes = map[FieldType]struct{}{
	TypeString:  {},
	TypeNumber:  {},
	TypeBoolean: {},
	TypeDate:    {},
	TypeArray:   {},
	TypeObject:  {},
}

// Field is a single name/type pair.
type Field struct {
	Name string
	Type FieldType
}

// Schema is an immutable, ordered field→type mapping. Field order follows the
// caller's declaration order and is preserved in the prompt rendering.
type Schema struct {
	fields []Field
	types  map[string]FieldType
}

// Parse decodes and validates a schema from its JSON form. Field names must
// be non-empty and unique; type tags are matched case-insensitively against
// {string, number, boolean, date, array, object}.
func Parse(raw []byte) (Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return Schema{}, fmt.Errorf("schema is not valid JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Schema{}, errors.New("schema must be a JSON object with field names as keys")
	}

	s := Schema{types: make(map[string]FieldType)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Schema{}, fmt.Errorf("schema is not valid JSON: %v", err)
		}
		name, _ := keyTok.(string)
		if name == "" {
			return Schema{}, errors.New("field name must be a non-empty string")
		}
		if _, dup := s.types[name]; dup {
			return Schema{}, fmt.Errorf("duplicate field name: %q", name)
		}

		valTok, err := dec.Token()
		if err != nil {
			return Schema{}, fmt.Errorf("schema is not valid JSON: %v", err)
		}
		typeStr, ok := valTok.(string)
		fieldType := FieldType(strings.ToLower(typeStr))
		if !ok {
			return Schema{}, fmt.Errorf("field %q has invalid type %v. Supported types are: %s", name, valTok, supportedTypes())
		}
		if _, known := validTypes[fieldType]; !known {
			return Schema{}, fmt.Errorf("field %q has invalid type %q. Supported types are: %s", name, typeStr, supportedTypes())
		}

		s.fields = append(s.fields, Field{Name: name, Type: fieldType})
		s.types[name] = fieldType
	}
	if _, err := dec.Token(); err != nil {
		return Schema{}, fmt.Errorf("schema is not valid JSON: %v", err)
	}

	if len(s.fields) == 0 {
		return Schema{}, errors.New("schema cannot be empty")
	}
	return s, nil
}

// Fields returns the fields in declaration order.
func (s Schema) Fields() []Field {
	return s.fields
}

// Len returns the number of declared fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// TypeOf reports the declared type of a field.
func (s Schema) TypeOf(name string) (FieldType, bool) {
	t, ok := s.types[name]
	return t, ok
}

// PromptRepresentation renders the schema as the canonical indented JSON text
// included in the model prompt, fields in declaration order.
func (s Schema) PromptRepresentation() string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range s.fields {
		fmt.Fprintf(&b, "  %q: %q", f.Name, string(f.Type))
		if i < len(s.fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func supportedTypes() string {
	return "string, number, boolean, date, array, object"
}
