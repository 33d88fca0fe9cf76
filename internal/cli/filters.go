package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/astra-monitor/eventview/internal/logging"
	"github.com/astra-monitor/eventview/internal/table"
)

// maxFilterSuggestionDistance is the largest edit distance for a "did you mean" hint.
const maxFilterSuggestionDistance = 3

// ErrInvalidFilter is returned for a --filter value that is not key=value with a known key.
var ErrInvalidFilter = errors.New("invalid filter")

// ParseFilters parses --filter values of the form key=value into criteria in the order
// given. Empty strings are ignored; a later value for the same key replaces the earlier one.
func ParseFilters(ctx context.Context, filters []string) (table.FilterCriteria, error) {
	log := logging.FromContext(ctx)

	var out table.FilterCriteria
	for _, f := range filters {
		if strings.TrimSpace(f) == "" {
			continue
		}
		key, value, ok := strings.Cut(f, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("%w %q: expected key=value", ErrInvalidFilter, f)
		}
		if err := validateFilterKey(key); err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "parse_filters").
				Str("filter", f).
				Err(err).
				Msg("invalid filter expression")
			return nil, err
		}
		out = setCriterion(out, key, strings.TrimSpace(value))
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "parse_filters").
		Int("criteria", len(out)).
		Msg("parsed filters")
	return out, nil
}

func setCriterion(c table.FilterCriteria, name, value string) table.FilterCriteria {
	for i := range c {
		if c[i].Name == name {
			c[i].Value = value
			return c
		}
	}
	return append(c, table.Param{Name: name, Value: value})
}

func validateFilterKey(key string) error {
	names := table.FilterFieldNames()
	best, bestDist := "", maxFilterSuggestionDistance+1
	for _, name := range names {
		if name == key {
			return nil
		}
		if d := levenshtein.ComputeDistance(key, name); d < bestDist {
			best, bestDist = name, d
		}
	}

	hint := ""
	if best != "" {
		hint = fmt.Sprintf("; did you mean %q?", best)
	}
	return fmt.Errorf("%w: unknown key %q (valid: %s)%s", ErrInvalidFilter, key, strings.Join(names, ", "), hint)
}
