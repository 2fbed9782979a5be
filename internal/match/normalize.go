package match

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var markdownImageURL = regexp.MustCompile(`\((https?://[^)]+)\)`)

// Normalize converges whatever shape the model produced into the canonical
// Recommendation. It is total: invalid or missing values fall back to
// documented defaults and candidates without a venue name are dropped, but
// it never fails. Validation of the converged result is a separate step.
func Normalize(parsed map[string]any) Recommendation {
	rawCandidates, _ := parsed["candidates"].([]any)

	candidates := make([]Candidate, 0, len(rawCandidates))
	for _, raw := range rawCandidates {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		candidate := normalizeCandidate(item)
		if candidate.VenueName == "" {
			continue
		}
		candidates = append(candidates, candidate)
	}

	return Recommendation{
		MidpointAnalysis: coerceString(parsed["midpoint_analysis"]),
		Candidates:       candidates,
	}
}

func normalizeCandidate(item map[string]any) Candidate {
	venueName := coerceString(firstNonNil(item["venue_name"], item["name"]))
	cost := coerceNumber(firstNonNil(item["estimated_cost"], item["price"]))

	candidateType := TypeOrganic
	if item["type"] == TypeSponsored {
		candidateType = TypeSponsored
	}

	return Candidate{
		VenueName:            venueName,
		Address:              coerceString(item["address"]),
		Location:             normalizeLocation(item),
		Type:                 candidateType,
		RecommendationReason: coerceString(item["recommendation_reason"]),
		EstimatedCost:        cost,
		BestFor:              normalizeStringList(item["best_for"]),
		SuggestedItem:        coerceString(item["suggested_item"]),
		ImgURL:               normalizeImageURL(item),
	}
}

// normalizeLocation prefers the nested location object and falls back to
// flat lat/lng keys. Missing coordinates default to {0,0}; that fallback is
// part of the contract, not an error.
func normalizeLocation(item map[string]any) Location {
	nested, _ := item["location"].(map[string]any)
	return Location{
		Lat: coerceNumber(firstNonNil(nested["lat"], item["lat"])),
		Lng: coerceNumber(firstNonNil(nested["lng"], item["lng"])),
	}
}

func firstNonNil(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// normalizeStringList accepts either a list or a delimited string. Strings
// are split on full-width and half-width commas, the Chinese enumeration
// comma and slashes. Empty entries are dropped in both cases.
func normalizeStringList(value any) []string {
	out := []string{}

	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		parts := strings.FieldsFunc(v, func(r rune) bool {
			return r == '，' || r == ',' || r == '、' || r == '/'
		})
		for _, part := range parts {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}

	return out
}

// normalizeImageURL resolves the image from any of the field spellings the
// model is known to use. Markdown image syntax yields the embedded URL; a
// plain value passes through unchanged. Returns "" when no source field is a
// string.
func normalizeImageURL(item map[string]any) string {
	var value string
	for _, key := range []string{"imgUrl", "image", "image_url"} {
		if s, ok := item[key].(string); ok {
			value = s
			break
		}
	}
	if value == "" {
		return ""
	}

	if m := markdownImageURL.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return value
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceNumber(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
