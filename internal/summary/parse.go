package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes an LLM reply into a StructuredSummary and validates it.
// Markdown fences and prose around the JSON object are tolerated; unknown
// fields and schema violations are not.
func Parse(raw string) (StructuredSummary, error) {
	var s StructuredSummary
	if err := decodeStrict(raw, &s); err != nil {
		return StructuredSummary{}, err
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return StructuredSummary{}, &ParseError{Raw: raw, Err: err}
	}
	return s, nil
}

// ParseExecutive decodes a reduce-pass reply of the form
// {"executive_summary": [...]}.
func ParseExecutive(raw string) ([]string, error) {
	var out struct {
		ExecutiveSummary []string `json:"executive_summary"`
	}
	if err := decodeStrict(raw, &out); err != nil {
		return nil, err
	}
	bullets := trimAll(out.ExecutiveSummary)
	if err := ValidateExecutive(bullets); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return bullets, nil
}

func decodeStrict(raw string, v any) error {
	content := cleanJSONResponse(raw)
	if content == "" {
		return &ParseError{Raw: raw, Err: fmt.Errorf("empty response")}
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	if dec.More() {
		return &ParseError{Raw: raw, Err: fmt.Errorf("trailing data after JSON object")}
	}
	return nil
}

func (s *StructuredSummary) normalize() {
	s.ExecutiveSummary = trimAll(s.ExecutiveSummary)
	s.NotableQuotes = trimAll(s.NotableQuotes)
	if s.KeyPoints == nil {
		s.KeyPoints = []Theme{}
	}
	for i := range s.KeyPoints {
		s.KeyPoints[i].Label = strings.TrimSpace(s.KeyPoints[i].Label)
		s.KeyPoints[i].Points = trimAll(s.KeyPoints[i].Points)
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

// cleanJSONResponse strips code fences and any prose around the outermost
// JSON object.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
