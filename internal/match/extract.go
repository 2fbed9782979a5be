package match

import "strings"

// ExtractJSON strips markdown code-fence markers from the model output and
// returns the substring between the first '{' and the last '}' inclusive.
//
// First-open/last-close is intentionally naive: models reliably wrap correct
// JSON with explanatory prose or fences, and this handles that without a full
// scan. The trade-off is that stray braces in surrounding prose widen the
// extracted substring. The substring is not guaranteed to be valid JSON;
// parsing happens at the call site.
func ExtractJSON(text string) (string, error) {
	cleaned := strings.ReplaceAll(text, "`json", "")
	cleaned = strings.ReplaceAll(cleaned, "`", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoJSON
	}

	return cleaned[start : end+1], nil
}
