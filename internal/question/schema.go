package question

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const packSchemaURL = "schema://iqtest/pack.json"

//go:embed schema/pack.schema.json
var packSchema []byte

// Validator checks pack documents against the bundled JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the pack schema.
func NewValidator() (*Validator, error) {
	var def any
	if err := json.Unmarshal(packSchema, &def); err != nil {
		return nil, fmt.Errorf("parse pack schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(packSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add pack schema: %w", err)
	}
	compiled, err := c.Compile(packSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile pack schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate returns ErrInvalidPack, wrapped with the schema violations, when
// doc is not a pack document.
func (v *Validator) Validate(doc []byte) error {
	var parsed any
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if err := v.schema.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	return nil
}
