package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"rantify/blueprint"
)

var validate = validator.New()

// Output is a generated value of one result shape. Exactly one of Review
// and Rhyme is set.
type Output struct {
	Shape  blueprint.ResultShape
	Review *blueprint.Review
	Rhyme  *blueprint.Rhyme
}

type reviewPayload struct {
	Facts  blueprint.Facts `json:"facts" validate:"required,min=1,dive,required"`
	Review string          `json:"review" validate:"required"`
	Rating *int            `json:"rating" validate:"required,gte=0,lte=10"`
}

type rhymePayload struct {
	Facts   blueprint.Facts `json:"facts" validate:"required,min=1,dive,required"`
	Stanzas [][]string      `json:"stanzas" validate:"required,min=1,dive,min=1,dive,required"`
}

// extractObject returns the outermost JSON object in text, ignoring code
// fences or prose the model wrapped around it.
func extractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Parse decodes generated text into the shape. Every failure wraps
// blueprint.ErrParseFailed.
func Parse(text string, shape blueprint.ResultShape) (*Output, error) {
	raw, ok := extractObject(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in output", blueprint.ErrParseFailed)
	}

	switch shape {
	case blueprint.ShapeReview:
		var p reviewPayload
		if err := decodeAndValidate(raw, &p); err != nil {
			return nil, err
		}
		return &Output{
			Shape:  shape,
			Review: &blueprint.Review{Facts: p.Facts, Review: p.Review, Rating: *p.Rating},
		}, nil
	case blueprint.ShapeRhyme:
		var p rhymePayload
		if err := decodeAndValidate(raw, &p); err != nil {
			return nil, err
		}
		return &Output{
			Shape: shape,
			Rhyme: &blueprint.Rhyme{Facts: p.Facts, Stanzas: p.Stanzas},
		}, nil
	}
	return nil, fmt.Errorf("llm: unknown result shape %q", shape)
}

func decodeAndValidate(raw string, v interface{}) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", blueprint.ErrParseFailed, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", blueprint.ErrParseFailed, err)
	}
	return nil
}
