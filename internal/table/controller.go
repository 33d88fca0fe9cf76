package table

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/astra-monitor/eventview/internal/api"
	"github.com/astra-monitor/eventview/internal/logging"
	"github.com/astra-monitor/eventview/internal/pagination"
)

// User-facing message texts.
const (
	LoadErrorPrefix    = "Error loading events: "
	MonitorErrorPrefix = "Error: "
	MonitorSucceeded   = "Monitoring completed successfully!"
)

// DefaultPath is the location path used when none is configured.
const DefaultPath = "/events"

// Trigger names the user action that started a load.
type Trigger string

// Triggers.
const (
	TriggerStart   Trigger = "start"
	TriggerFilter  Trigger = "filter"
	TriggerPage    Trigger = "page"
	TriggerSort    Trigger = "sort"
	TriggerRefresh Trigger = "refresh"
	TriggerMonitor Trigger = "monitor"
)

// Fetcher loads one page of events.
type Fetcher interface {
	Events(ctx context.Context, query api.Query, busy api.BusyTarget) (*api.ResultPage, error)
}

// Monitor starts a monitoring run on the backend.
type Monitor interface {
	RunMonitor(ctx context.Context, busy api.BusyTarget) (*api.MonitorResult, error)
}

// Load is one pending fetch. Run may be called from any goroutine; every Load returned
// by a trigger must be handed back through Apply exactly once.
type Load struct {
	seq     uint64
	trigger Trigger
	state   ViewState
	query   QueryParameters
	fetcher Fetcher
	monitor Monitor
	busy    api.BusyTarget
}

// Seq returns the load's sequence number.
func (l *Load) Seq() uint64 { return l.seq }

// Trigger returns the action that started the load.
func (l *Load) Trigger() Trigger { return l.trigger }

// Query returns the parameters the load will send.
func (l *Load) Query() QueryParameters { return l.query }

// Run performs the request. It touches no controller state.
func (l *Load) Run(ctx context.Context) Outcome {
	out := Outcome{Seq: l.seq, Trigger: l.trigger, State: l.state, Query: l.query}

	if l.trigger == TriggerMonitor {
		out.Monitor, out.MonitorErr = l.monitor.RunMonitor(ctx, l.busy)
		if out.MonitorErr != nil {
			return out
		}
	}

	out.Page, out.Err = l.fetcher.Events(ctx, l.query, l.busy)
	return out
}

// Outcome is the result of Load.Run.
type Outcome struct {
	Seq     uint64
	Trigger Trigger

	// State is the view state the load was computed for; committed on success.
	State ViewState
	Query QueryParameters

	Page *api.ResultPage
	Err  error

	// Monitor and MonitorErr are set for TriggerMonitor loads only.
	Monitor    *api.MonitorResult
	MonitorErr error
}

// Controller drives the event table. All methods except Load.Run must be called from
// the same goroutine.
type Controller struct {
	fetcher   Fetcher
	monitor   Monitor
	view      ViewPort
	presenter *Presenter
	path      string
	defaults  ViewState
	logger    zerolog.Logger

	gate     *semaphore.Weighted
	seq      uint64
	inflight uint64

	state    ViewState
	location string
}

// Option configures a Controller.
type Option func(*Controller)

// WithPath sets the location path (default DefaultPath).
func WithPath(path string) Option {
	return func(c *Controller) {
		if path != "" {
			c.path = path
		}
	}
}

// WithDefaults sets the sort key and order used when the location names none.
func WithDefaults(s ViewState) Option {
	return func(c *Controller) {
		if s.SortBy != "" {
			c.defaults.SortBy = s.SortBy
		}
		if order, ok := pagination.NormalizeOrder(s.SortOrder); ok {
			c.defaults.SortOrder = order
		}
	}
}

// WithMonitor enables RunMonitor.
func WithMonitor(m Monitor) Option {
	return func(c *Controller) { c.monitor = m }
}

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logging.ComponentLogger(l, "table") }
}

// NewController creates a controller rendering into view.
func NewController(fetcher Fetcher, view ViewPort, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   fetcher,
		view:      view,
		presenter: NewPresenter(view.Errors),
		path:      DefaultPath,
		defaults:  DefaultViewState(),
		logger:    zerolog.Nop(),
		gate:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = c.defaults
	return c
}

// State returns the committed view state.
func (c *Controller) State() ViewState { return c.state }

// Location returns the location of the last successful load, or "" before one.
func (c *Controller) Location() string { return c.location }

// Busy reports whether a load is in flight.
func (c *Controller) Busy() bool { return c.inflight != 0 }

// Presenter returns the controller's error presenter.
func (c *Controller) Presenter() *Presenter { return c.presenter }

// Start reads the view state and filter criteria from location, writes the criteria into
// the filter form and issues the initial load.
func (c *Controller) Start(location string) (*Load, error) {
	if c.Busy() {
		return c.begin(TriggerStart, Patch{})
	}
	state, criteria := ParseLocationWithDefaults(location, c.defaults)
	c.state = state
	if c.view.Form != nil {
		for _, p := range criteria {
			if !c.view.Form.Set(p.Name, p.Value) {
				c.logger.Debug().
					Str("operation", "start").
					Str("param", p.Name).
					Msg("location parameter has no matching filter field")
			}
		}
	}
	return c.begin(TriggerStart, Patch{})
}

// SubmitFilter reloads with the form's current values from page 1.
func (c *Controller) SubmitFilter() (*Load, error) {
	return c.begin(TriggerFilter, Patch{FilterSubmitted: true})
}

// GoToPage loads page n with the current sort and filter.
func (c *Controller) GoToPage(n int) (*Load, error) {
	return c.begin(TriggerPage, Patch{Page: pagination.ClampPage(n)})
}

// SortBy selects a sort column. The active column toggles between asc and desc; any
// other column sorts asc. Either way the page resets to 1.
func (c *Controller) SortBy(key string) (*Load, error) {
	p := Patch{SortBy: key, SortOrder: pagination.SortOrderAsc, Page: pagination.DefaultPage}
	if key == c.state.SortBy {
		p.SortOrder = pagination.ToggleOrder(c.state.SortOrder)
	}
	return c.begin(TriggerSort, p)
}

// Refresh reloads the current view.
func (c *Controller) Refresh() (*Load, error) {
	return c.begin(TriggerRefresh, Patch{})
}

// RunMonitor starts a monitoring run and reloads the current view after it succeeds.
func (c *Controller) RunMonitor() (*Load, error) {
	if c.monitor == nil {
		return nil, errors.New("monitor action not configured")
	}
	return c.begin(TriggerMonitor, Patch{})
}

// begin claims the in-flight slot and prepares a load for the patched state. A nil load
// with a nil error means the trigger was ignored because another load is in flight.
func (c *Controller) begin(trigger Trigger, p Patch) (*Load, error) {
	if !c.gate.TryAcquire(1) {
		c.logger.Debug().
			Str("operation", string(trigger)).
			Uint64("inflight", c.inflight).
			Msg("ignoring trigger while a load is in flight")
		return nil, nil //nolint:nilnil // Ignored trigger is not an error.
	}

	next := c.state.RecordChange(p)
	query, err := Build(c.view.Form, next)
	if err != nil {
		c.gate.Release(1)
		c.logger.Error().Err(err).Str("operation", string(trigger)).Msg("cannot build query")
		c.presenter.Show(LoadErrorPrefix + err.Error())
		return nil, err
	}

	c.seq++
	c.inflight = c.seq
	c.logger.Debug().
		Str("operation", string(trigger)).
		Uint64("seq", c.seq).
		Str("query", query.Encode()).
		Msg("load started")

	return &Load{
		seq:     c.seq,
		trigger: trigger,
		state:   next,
		query:   query,
		fetcher: c.fetcher,
		monitor: c.monitor,
		busy:    c.view.Busy,
	}, nil
}

// Apply commits an outcome. Outcomes of anything but the latest load are dropped. On
// failure the error is shown and rows, pager, location and view state stay as they were.
// On success the view state is committed, rows and pager are replaced and then the
// location is replaced.
func (c *Controller) Apply(o Outcome) error {
	if o.Seq == 0 || o.Seq != c.inflight {
		c.logger.Debug().Uint64("seq", o.Seq).Uint64("latest", c.seq).Msg("dropping stale outcome")
		return nil
	}
	c.inflight = 0
	c.gate.Release(1)

	log := c.logger.With().Str("operation", string(o.Trigger)).Uint64("seq", o.Seq).Logger()

	if o.Trigger == TriggerMonitor {
		if o.MonitorErr != nil {
			log.Warn().Err(o.MonitorErr).Msg("monitor run failed")
			c.presenter.Show(MonitorErrorPrefix + o.MonitorErr.Error())
			return o.MonitorErr
		}
		log.Info().Msg("monitor run completed")
		if c.view.Notices != nil {
			c.view.Notices.Notify(MonitorSucceeded)
		}
	}

	if o.Err != nil {
		log.Warn().Err(o.Err).Str("query", o.Query.Encode()).Msg("load failed")
		c.presenter.Show(LoadErrorPrefix + o.Err.Error())
		return o.Err
	}

	rows, err := RenderRows(o.Page.Events)
	if err != nil {
		log.Warn().Err(err).Msg("rejecting result page")
		c.presenter.Show(LoadErrorPrefix + err.Error())
		return err
	}

	c.state = o.State
	c.presenter.Dismiss()
	if c.view.Rows != nil {
		c.view.Rows.ReplaceRows(rows)
	}
	if c.view.Pager != nil {
		c.view.Pager.ReplacePager(RenderPager(o.Page))
	}
	c.location = Location(c.path, o.Query)
	if c.view.Location != nil {
		c.view.Location.ReplaceLocation(c.location)
	}

	log.Debug().
		Int("events", len(o.Page.Events)).
		Int("page", o.Page.Page).
		Int("total_pages", o.Page.TotalPages).
		Msg("load applied")
	return nil
}

// Do runs load synchronously and applies its outcome. A nil load is a no-op.
func (c *Controller) Do(ctx context.Context, load *Load) error {
	if load == nil {
		return nil
	}
	return c.Apply(load.Run(ctx))
}
