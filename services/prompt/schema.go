package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"rantify/blueprint"
)

const formatInstructionsHeader = `The output should be formatted as a JSON instance that conforms to the JSON schema below.

As an example, for the schema {"properties": {"foo": {"title": "Foo", "description": "a list of strings", "type": "array", "items": {"type": "string"}}}, "required": ["foo"]}
the object {"foo": ["bar", "baz"]} is a well-formatted instance of the schema. The object {"properties": {"foo": ["bar", "baz"]}} is not well-formatted.

Here is the output schema:
`

func schemaTarget(shape blueprint.ResultShape) (interface{}, error) {
	switch shape {
	case blueprint.ShapeReview:
		return &blueprint.Review{}, nil
	case blueprint.ShapeRhyme:
		return &blueprint.Rhyme{}, nil
	}
	return nil, fmt.Errorf("prompt: unknown result shape %q", shape)
}

// Schema returns the JSON Schema of the result shape.
func Schema(shape blueprint.ResultShape) (*jsonschema.Schema, error) {
	target, err := schemaTarget(shape)
	if err != nil {
		return nil, err
	}
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return r.Reflect(target), nil
}

// FormatInstructions tells the model how to shape its answer.
func FormatInstructions(shape blueprint.ResultShape) (string, error) {
	schema, err := Schema(shape)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return formatInstructionsHeader + "```\n" + string(raw) + "\n```", nil
}
