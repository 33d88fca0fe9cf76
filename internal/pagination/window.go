package pagination

import "strconv"

// WindowThreshold is the largest page count for which every page number is shown.
const WindowThreshold = 7

// windowRadius is how many neighbours of the current page stay visible when windowing.
const windowRadius = 1

// ItemKind identifies a pagination control.
type ItemKind int

const (
	// ItemPrev navigates to the previous page.
	ItemPrev ItemKind = iota
	// ItemPage navigates to a numbered page.
	ItemPage
	// ItemEllipsis marks a collapsed run of pages; it is not a control.
	ItemEllipsis
	// ItemNext navigates to the next page.
	ItemNext
)

// Labels for non-numbered items.
const (
	LabelPrev     = "« Previous"
	LabelNext     = "Next »"
	LabelEllipsis = "..."
)

// Item is one entry of the pagination bar.
type Item struct {
	Kind ItemKind

	// Page is the target page for Prev, Next and Page items; zero for ellipses.
	Page int

	// Active marks the page item for the page being displayed.
	Active bool
}

// Clickable reports whether selecting the item should load a page.
func (i Item) Clickable() bool {
	return i.Kind != ItemEllipsis
}

// Label returns the display text for the item.
func (i Item) Label() string {
	switch i.Kind {
	case ItemPrev:
		return LabelPrev
	case ItemNext:
		return LabelNext
	case ItemEllipsis:
		return LabelEllipsis
	default:
		return strconv.Itoa(i.Page)
	}
}

// Window computes the pagination bar for the current page out of total pages.
//
// Rules:
//   - total <= 1: no items
//   - Prev when current > 1, Next when current < total
//   - total <= WindowThreshold: every page
//   - otherwise page 1, page total and current±1; each other contiguous run of pages is
//     replaced by exactly one ellipsis
//
// A current page beyond total (a stale location) keeps Prev pointing at the last real page.
func Window(current, total int) []Item {
	if total <= 1 {
		return nil
	}
	current = ClampPage(current)

	items := make([]Item, 0, WindowThreshold+4) //nolint:mnd // prev, next and two ellipses.

	if current > 1 {
		prev := current - 1
		if prev > total {
			prev = total
		}
		items = append(items, Item{Kind: ItemPrev, Page: prev})
	}

	inGap := false
	for p := 1; p <= total; p++ {
		if total <= WindowThreshold || visible(p, current, total) {
			items = append(items, Item{Kind: ItemPage, Page: p, Active: p == current})
			inGap = false
			continue
		}
		if !inGap {
			items = append(items, Item{Kind: ItemEllipsis})
			inGap = true
		}
	}

	if current < total {
		items = append(items, Item{Kind: ItemNext, Page: current + 1})
	}

	return items
}

// visible reports whether page p keeps its own control in a windowed bar.
func visible(p, current, total int) bool {
	return p == 1 || p == total || (p >= current-windowRadius && p <= current+windowRadius)
}

// Pages returns the numbered pages in items, with 0 standing in for each ellipsis.
// Prev and Next are omitted.
func Pages(items []Item) []int {
	var out []int
	for _, it := range items {
		switch it.Kind {
		case ItemPage:
			out = append(out, it.Page)
		case ItemEllipsis:
			out = append(out, 0)
		case ItemPrev, ItemNext:
		}
	}
	return out
}
