package table

import "github.com/astra-monitor/eventview/internal/api"

// RowsRegion receives the complete row set on every successful load.
type RowsRegion interface {
	ReplaceRows(rows []Row)
}

// PagerRegion receives the complete pagination controls on every successful load.
type PagerRegion interface {
	ReplacePager(p Pager)
}

// ErrorRegion shows at most one dismissible error notice.
type ErrorRegion interface {
	ShowError(message string)
	ClearError()
}

// NoticeRegion shows informational messages.
type NoticeRegion interface {
	Notify(message string)
}

// LocationRegion holds the current location. Each update replaces the previous one.
type LocationRegion interface {
	ReplaceLocation(location string)
}

// ViewPort is the set of regions the controller renders into. Every region is optional
// except Form, whose absence fails every load with ErrMissingForm.
type ViewPort struct {
	Form     FilterForm
	Rows     RowsRegion
	Pager    PagerRegion
	Errors   ErrorRegion
	Notices  NoticeRegion
	Busy     api.BusyTarget
	Location LocationRegion
}

// Presenter shows user-facing errors in an ErrorRegion. A Presenter without a region
// does nothing.
type Presenter struct {
	region ErrorRegion
}

// NewPresenter creates a presenter for region, which may be nil.
func NewPresenter(region ErrorRegion) *Presenter {
	return &Presenter{region: region}
}

// Show replaces any visible notice with message.
func (p *Presenter) Show(message string) {
	if p == nil || p.region == nil {
		return
	}
	p.region.ShowError(message)
}

// Dismiss clears the notice.
func (p *Presenter) Dismiss() {
	if p == nil || p.region == nil {
		return
	}
	p.region.ClearError()
}
