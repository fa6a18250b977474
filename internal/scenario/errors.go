package scenario

import (
	"fmt"
	"strings"
)

// Issue describes one out-of-domain input field.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned by New when the inputs cannot form a Scenario.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "invalid scenario"
	case 1:
		return fmt.Sprintf("invalid scenario: %s %s", e.Issues[0].Field, e.Issues[0].Reason)
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + " " + is.Reason
	}
	return fmt.Sprintf("invalid scenario (%d problems): %s", len(e.Issues), strings.Join(parts, "; "))
}

// HasField reports whether any issue concerns the given field path.
func (e *ValidationError) HasField(field string) bool {
	for _, is := range e.Issues {
		if is.Field == field {
			return true
		}
	}
	return false
}
