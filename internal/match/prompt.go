package match

import (
	"encoding/json"
	"strings"

	_ "embed"
)

//go:embed prompt.md
var promptTemplate string

// BuildPrompt serializes the request as pretty-printed JSON and embeds it in
// the instructional preamble. Deterministic, no I/O; absent optional
// sub-fields are passed through as-is and defaulted downstream by Normalize.
func BuildPrompt(req *Request) string {
	payload, _ := json.MarshalIndent(req, "", "  ")
	return strings.ReplaceAll(promptTemplate, "{{INPUT_JSON}}", string(payload))
}
