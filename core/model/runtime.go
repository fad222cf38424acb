package model

import (
	"encoding/json"
	"fmt"
	"math"
)

const infiniteLabel = "infinite"

// Runtime is the estimated endurance of the stored capacity in days.
// A self-sustaining system has an infinite runtime, kept as an explicit
// flag rather than a large number.
type Runtime struct {
	days     float64
	infinite bool
}

// InfiniteRuntime is the runtime of a system whose input covers its usage.
func InfiniteRuntime() Runtime { return Runtime{infinite: true} }

// FiniteRuntime returns a runtime of the given number of days.
func FiniteRuntime(days float64) Runtime { return Runtime{days: days} }

// IsInfinite reports whether the runtime is the sustainable sentinel.
func (r Runtime) IsInfinite() bool { return r.infinite }

// Days returns the unrounded runtime, +Inf for the sentinel.
func (r Runtime) Days() float64 {
	if r.infinite {
		return math.Inf(1)
	}
	return r.days
}

// Hours returns the runtime in hours.
func (r Runtime) Hours() float64 {
	return r.Days() * 24
}

// RoundedDays rounds to the nearest half day. Display only: comparisons
// must use Days.
func (r Runtime) RoundedDays() float64 {
	if r.infinite {
		return math.Inf(1)
	}
	return math.Round(r.days*2) / 2
}

// Less reports whether r is a shorter endurance than o.
func (r Runtime) Less(o Runtime) bool {
	switch {
	case r.infinite:
		return false
	case o.infinite:
		return true
	default:
		return r.days < o.days
	}
}

// String formats the runtime for reports.
func (r Runtime) String() string {
	if r.infinite {
		return infiniteLabel
	}
	return fmt.Sprintf("%.2f days", r.days)
}

// MarshalJSON encodes the sentinel as "infinite" and finite values as numbers.
func (r Runtime) MarshalJSON() ([]byte, error) {
	if r.infinite {
		return json.Marshal(infiniteLabel)
	}
	return json.Marshal(r.days)
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (r *Runtime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != infiniteLabel {
			return fmt.Errorf("unknown runtime %q", s)
		}
		*r = InfiniteRuntime()
		return nil
	}
	var d float64
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*r = FiniteRuntime(d)
	return nil
}
