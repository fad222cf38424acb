// Package resolver turns the discrete choices a user makes on the dashboard
// (battery bank size, solar efficiency tier, drive time, device quick-select)
// into the numeric sources and devices consumed by the balance engine.
//
// Preset tables are plain lookup maps so new options only need a new entry.
// All functions are pure and reject negative values with model.ErrInvalidInput.
package resolver
