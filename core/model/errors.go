package model

import "errors"

// ErrInvalidConfiguration is returned when the storage side of a
// configuration cannot support a balance computation, e.g. zero capacity.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInvalidInput is returned for negative counts, watts or hours and for
// hours outside a single day.
var ErrInvalidInput = errors.New("invalid input")
