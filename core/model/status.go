package model

import (
	"encoding/json"
	"fmt"
)

// StatusTier is a coarse classification of system health.
type StatusTier int

const (
	StatusSustainable StatusTier = iota
	StatusStable
	StatusModerate
	StatusCritical
)

var statusNames = map[StatusTier]string{
	StatusSustainable: "sustainable",
	StatusStable:      "stable",
	StatusModerate:    "moderate",
	StatusCritical:    "critical",
}

var statusMessages = map[StatusTier]string{
	StatusSustainable: "System is fully sustainable, inputs exceed usage.",
	StatusStable:      "System is stable, good off-grid performance.",
	StatusModerate:    "Moderate consumption, check solar and alternator charging.",
	StatusCritical:    "High consumption, consider reducing usage or increasing input.",
}

// String returns a human-readable representation of the tier.
func (t StatusTier) String() string {
	if s, ok := statusNames[t]; ok {
		return s
	}
	return "unknown"
}

// Message is the dashboard advice shown for the tier.
func (t StatusTier) Message() string {
	return statusMessages[t]
}

// Rank orders tiers from best (0) to worst.
func (t StatusTier) Rank() int { return int(t) }

// ParseStatusTier is the inverse of String.
func ParseStatusTier(s string) (StatusTier, error) {
	for t, name := range statusNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown status tier %q", s)
}

func (t StatusTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *StatusTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseStatusTier(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
