package analyses

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*\\n?")
	trailingFence = regexp.MustCompile("(?i)\\n?```\\s*$")
)

// stripCodeFences removes a surrounding markdown code fence, if any.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// parseResult turns provider content into a Result. Only the presence and
// top-level type of the four required fields are checked; nested values
// are decoded leniently.
func parseResult(content string) (Result, error) {
	cleaned := stripCodeFences(content)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return Result{}, &ShapeError{Kind: ShapeParse, Reason: "response is not a JSON object", Err: err}
	}
	if err := validateShape(top); err != nil {
		return Result{}, err
	}

	var res Result
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return Result{}, &ShapeError{Kind: ShapeInvalid, Reason: "response does not match the analysis schema", Err: err}
	}
	return res, nil
}

func validateShape(top map[string]json.RawMessage) error {
	if !isJSONKind(top["ratings"], '{') {
		return &ShapeError{Kind: ShapeInvalid, Reason: "Missing or invalid ratings object"}
	}
	if !isJSONKind(top["deepAnalysis"], '{') {
		return &ShapeError{Kind: ShapeInvalid, Reason: "Missing or invalid deepAnalysis object"}
	}
	if !isJSONKind(top["recommendations"], '[') {
		return &ShapeError{Kind: ShapeInvalid, Reason: "Missing or invalid recommendations array"}
	}
	var summary string
	if raw, ok := top["summary"]; !ok || json.Unmarshal(raw, &summary) != nil || summary == "" {
		return &ShapeError{Kind: ShapeInvalid, Reason: "Missing or invalid summary"}
	}
	return nil
}

func isJSONKind(raw json.RawMessage, open byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed[0] == open
}
