package tui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/astra-monitor/eventview/internal/pagination"
)

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// summaryLine describes the loaded page, e.g. "Showing 81-100 of 1,234 events (page 5 of 62)".
func summaryLine(meta pagination.Meta, rows int) string {
	p := message.NewPrinter(language.English)
	switch {
	case meta.TotalItems > 0 && meta.FirstItem() > 0:
		return p.Sprintf("Showing %d-%d of %d events (page %d of %d)",
			meta.FirstItem(), meta.LastItem(), meta.TotalItems, meta.CurrentPage, meta.TotalPages)
	case meta.TotalPages > 0:
		return p.Sprintf("%d events on page %d of %d", rows, meta.CurrentPage, meta.TotalPages)
	default:
		return p.Sprintf("%d events", rows)
	}
}
