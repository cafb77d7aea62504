package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// propertySchema wraps a compiled JSON schema used to check descriptor
// property overrides before a factory runs.
type propertySchema struct {
	compiled *jsonschema.Schema
}

func compilePropertySchema(schema map[string]any) (*propertySchema, error) {
	if len(schema) == 0 {
		return nil, nil
	}

	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("registry: encode property schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("registry: register property schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("registry: compile property schema: %w", err)
	}
	return &propertySchema{compiled: compiled}, nil
}

func (s *propertySchema) validate(props map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if props == nil {
		props = map[string]any{}
	}
	// Round-trip through JSON so property values use the types the schema
	// library expects (float64 numbers, plain maps and slices).
	encoded, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("registry: encode properties: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("registry: decode properties: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return err
	}
	return nil
}
