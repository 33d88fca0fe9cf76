package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Page and sort defaults and limits.
const (
	DefaultPage      = 1
	MinPage          = 1
	DefaultSortField = "timestamp"
	DefaultSortOrder = SortOrderDesc
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'value:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// ParsePage converts a raw page value into a page number. Missing, non-numeric and
// out-of-range input coerce to DefaultPage; the boolean reports whether raw was usable.
func ParsePage(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPage, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < MinPage {
		return DefaultPage, false
	}
	return page, true
}

// ClampPage raises page to MinPage.
func ClampPage(page int) int {
	if page < MinPage {
		return MinPage
	}
	return page
}

// NormalizeOrder lower-cases order and reports whether it is asc or desc.
func NormalizeOrder(order string) (string, bool) {
	order = strings.ToLower(strings.TrimSpace(order))
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", false
	}
	return order, true
}

// ToggleOrder flips asc and desc. Anything else becomes asc.
func ToggleOrder(order string) string {
	if order == SortOrderAsc {
		return SortOrderDesc
	}
	return SortOrderAsc
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "value", "timestamp:desc", "metric_type:asc".
// A bare field sorts ascending, matching the first click on an unsorted column.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = SortOrderAsc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}
