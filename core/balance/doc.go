// Package balance computes the daily power balance of a van: capacity,
// usage, input, net balance, percentage of capacity used, runtime and
// status tier.
//
// Every function is a pure computation over its arguments. The package
// holds no state and is safe for concurrent use.
package balance
