package match

import (
	"encoding/json"
	"fmt"
	"sync"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed recommendation.schema.json
var recommendationSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func schema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recommendationSchema))
	})
	return compiledSchema, schemaErr
}

// Validate accepts or rejects a normalized recommendation; it performs no
// coercion. Candidate-count violations and field-shape violations are
// reported with distinct reasons so callers can tell "no usable venues" from
// "structurally broken response".
func Validate(rec Recommendation) error {
	if n := len(rec.Candidates); n < 1 || n > 5 {
		return &SchemaError{
			Reason:     ReasonCandidateCount,
			Violations: []string{fmt.Sprintf("candidates length %d is outside 1..5", n)},
		}
	}

	s, err := schema()
	if err != nil {
		return fmt.Errorf("compiling recommendation schema: %w", err)
	}

	document, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling recommendation for validation: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("validating recommendation: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return &SchemaError{Reason: ReasonFieldMismatch, Violations: violations}
	}

	return nil
}
