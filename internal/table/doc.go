// Package table is the event table controller.
//
// It owns the table's view state (page, sort key, sort order), composes query parameters
// from the filter form, drives loads through the request gateway and renders the results
// into a ViewPort as complete view-models: rows, pagination controls, the error notice
// and the location string. It never draws anything itself; internal/tui supplies the
// ViewPorts.
//
// Loads are split into two halves so a UI event loop can run the fetch off its own
// goroutine:
//
//	load, err := ctrl.GoToPage(3)   // UI goroutine: compute next state, build query
//	outcome := load.Run(ctx)        // any goroutine: perform the request
//	err = ctrl.Apply(outcome)       // UI goroutine: commit state and redraw
//
// While a load is in flight further triggers are ignored and return a nil *Load.
package table
