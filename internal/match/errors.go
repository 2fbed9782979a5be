package match

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline stage failures. Callers are expected to substitute a fallback
// recommendation on any of these rather than block the user; none of them is
// retried internally.
var (
	// ErrModelCall tags failures of the upstream model call itself.
	ErrModelCall = errors.New("model call failed")
	// ErrNoJSON is returned when the model output contains no JSON object.
	ErrNoJSON = errors.New("response does not include a JSON payload")
	// ErrBadJSON tags an extracted payload that is not valid JSON.
	ErrBadJSON = errors.New("response payload is not valid JSON")
)

// Schema error reasons.
const (
	ReasonCandidateCount = "candidate_count"
	ReasonFieldMismatch  = "field_mismatch"
)

// SchemaError reports a normalized recommendation that failed final
// validation. Reason distinguishes "no usable venues survived" from "the
// model produced a structurally broken response".
type SchemaError struct {
	Reason     string
	Violations []string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("recommendation does not match expected schema (%s)", e.Reason)
	if len(e.Violations) > 0 {
		msg += ": " + strings.Join(e.Violations, "; ")
	}
	return msg
}
