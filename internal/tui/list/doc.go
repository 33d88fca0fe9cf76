// Package listview provides a scrolling list component for Bubble Tea views.
//
// Only the rows inside the viewport are rendered, so long
// histories scroll without re-rendering every item. Navigation keys:
//   - up/down and j/k move the selection by one row
//   - pgup/pgdown move by one viewport
//   - home/end jump to the first or last item
package listview
