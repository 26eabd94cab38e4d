package transform

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	j "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reoring/agegroup/extract"
)

const schemaURL = "agegroup.schema.json"

// JSONSchema is a minimal JSON Schema representation used for export and for
// strict shape validation.
type JSONSchema struct {
	Schema string `json:"$schema,omitempty"`
	Title  string `json:"title,omitempty"`

	// Core
	Type string `json:"type,omitempty"`
	Enum []any  `json:"enum,omitempty"`

	// Number
	Minimum *int `json:"minimum,omitempty"`
	Maximum *int `json:"maximum,omitempty"`

	// Object
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties any                    `json:"additionalProperties,omitempty"`

	// Array
	Items *JSONSchema `json:"items,omitempty"`
}

// Schema describes the input accepted in strict mode: a list of objects with
// a string name, an integer age representable as 0..255, and an optional
// age_group that is ignored. Ages 101..255 pass the schema and fail later
// with *InvalidAgeError.
func Schema() *JSONSchema {
	lo, hi := 0, 255
	groups := make([]any, 0, len(ageGroupNames))
	for _, n := range ageGroupNames {
		groups = append(groups, n)
	}
	return &JSONSchema{
		Schema: "https://json-schema.org/draft/2020-12/schema",
		Title:  "people",
		Type:   "array",
		Items: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"name":      {Type: "string"},
				"age":       {Type: "integer", Minimum: &lo, Maximum: &hi},
				"age_group": {Type: "string", Enum: groups},
			},
			Required:             []string{"name", "age"},
			AdditionalProperties: false,
		},
	}
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := j.Marshal(Schema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
})

// validateShape checks v against Schema. The tree is normalized through a
// JSON round trip so YAML scalars reach the validator as JSON values.
func validateShape(v extract.Value) error {
	s, err := compiledSchema()
	if err != nil {
		return &ConversionError{Format: v.Format(), Code: CodeSchema, Err: err}
	}
	tree, err := v.Tree()
	if err != nil {
		return &ConversionError{Format: v.Format(), Code: CodeSchema, Err: err}
	}
	b, err := j.Marshal(tree)
	if err != nil {
		return &ConversionError{Format: v.Format(), Code: CodeSchema, Err: err}
	}
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &ConversionError{Format: v.Format(), Code: CodeSchema, Err: err}
	}

	if err := s.Validate(doc); err != nil {
		path := ""
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			path = leafLocation(ve)
		}
		return &ConversionError{Format: v.Format(), Path: path, Code: CodeSchema, Err: err}
	}
	return nil
}

// leafLocation follows the first cause down to the most specific instance
// location.
func leafLocation(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve.InstanceLocation
}
