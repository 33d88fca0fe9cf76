// Package detail provides the lazily loaded breach history view opened from the event table.
//
// The view fetches its data only when it is opened and shows a spinner until the data
// arrives. A failed load stays inside the view as an inline error that 'r' retries; it
// never takes down the surrounding table.
package detail
