package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"chaincv/resume-analyzer/internal/models"
)

// ErrNoJSONFound means no brace-delimited span could be recovered from
// the model's response at all.
var ErrNoJSONFound = errors.New("No JSON object found in response")

// MissingFieldsError reports which of the required analysis keys were
// absent from an otherwise parseable response.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("Missing required fields: %s", strings.Join(e.Fields, ", "))
}

var requiredAnalysisFields = []string{"summary", "strengths", "areasForImprovement", "overallScore"}

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
	// Greedy first-{ to last-} span. Not a balanced parser; with
	// multiple JSON-like fragments in the raw text it grabs the whole
	// stretch between the outermost braces.
	jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// SanitizeAnalysisResponse recovers the structured analysis object from
// a model response that may be wrapped in code fences or surrounded by
// commentary. Fallbacks are tried in order, first success wins:
//
//  1. strip one leading fenced-code marker and one trailing marker
//  2. strip everything before the first '{' and after the last '}'
//  3. failing that, scan the original raw text for a {...} span
//
// The recovered candidate must parse as JSON and contain all four
// required keys; nothing beyond key presence is validated here.
func SanitizeAnalysisResponse(raw string) (*models.AnalysisData, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = fenceOpenRe.ReplaceAllString(cleaned, "")
	cleaned = fenceCloseRe.ReplaceAllString(cleaned, "")

	if idx := strings.Index(cleaned, "{"); idx >= 0 {
		cleaned = cleaned[idx:]
	}
	if idx := strings.LastIndex(cleaned, "}"); idx >= 0 {
		cleaned = cleaned[:idx+1]
	}
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		span := jsonSpanRe.FindString(raw)
		if span == "" {
			return nil, ErrNoJSONFound
		}
		cleaned = span
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	var missing []string
	for _, field := range requiredAnalysisFields {
		if _, ok := fields[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	var data models.AnalysisData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	return &data, nil
}
