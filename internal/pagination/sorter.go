package pagination

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestionDistance is the largest edit distance still offered as a suggestion.
const maxSuggestionDistance = 3

// Column identifiers the backend accepts for sort_by, in table column order.
const (
	FieldTimestamp  = "timestamp"
	FieldSCID       = "scid"
	FieldMetricType = "metric_type"
	FieldValue      = "value"
	FieldThreshold  = "threshold"
	FieldStatus     = "status"
)

// Fields is an ordered whitelist of sortable column identifiers.
type Fields struct {
	order []string
	valid map[string]bool
}

// NewFields creates a whitelist from the given identifiers, preserving their order.
func NewFields(fields ...string) *Fields {
	f := &Fields{valid: make(map[string]bool, len(fields))}
	for _, name := range fields {
		if f.valid[name] {
			continue
		}
		f.valid[name] = true
		f.order = append(f.order, name)
	}
	return f
}

// EventFields returns the sortable columns of the event table.
func EventFields() *Fields {
	return NewFields(FieldTimestamp, FieldSCID, FieldMetricType, FieldValue, FieldThreshold, FieldStatus)
}

// IsValidField checks if the field is valid for sorting.
func (f *Fields) IsValidField(field string) bool {
	return f.valid[field]
}

// GetValidFields returns all valid sort fields in column order.
func (f *Fields) GetValidFields() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Suggest returns the closest valid field to field, or "" when nothing is close enough.
func (f *Fields) Suggest(field string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, candidate := range f.order {
		d := levenshtein.ComputeDistance(field, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// Validate returns nil for a valid field, or an ErrInvalidSortField error that lists the
// valid fields and, when one is close, a suggestion.
func (f *Fields) Validate(field string) error {
	if f.IsValidField(field) {
		return nil
	}
	msg := fmt.Sprintf("%q (valid: %s)", field, strings.Join(f.order, ", "))
	if s := f.Suggest(field); s != "" {
		msg += fmt.Sprintf("; did you mean %q?", s)
	}
	return fmt.Errorf("%w: %s", ErrInvalidSortField, msg)
}
