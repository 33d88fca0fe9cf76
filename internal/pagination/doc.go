// Package pagination provides the page and sort primitives shared by the event table.
//
// This package contains:
//   - Page/sort constants and validation: ParsePage, ParseSort, NormalizeOrder, ToggleOrder
//   - Fields: the whitelist of sortable columns with "did you mean" suggestions
//   - Meta: previous/next metadata for a result page
//   - Window: the windowed list of page controls (numbers, ellipses, prev/next)
//
// Everything here is pure and DOM/terminal agnostic so the windowing rules can be tested
// without a renderer.
package pagination
