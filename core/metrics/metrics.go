package metrics

import (
	"time"

	"github.com/kilianp07/alfred/core/model"
)

// BalanceEvent is one evaluation of a session's configuration.
type BalanceEvent struct {
	SessionID string
	Result    model.PowerBalanceResult
	Devices   int
	Time      time.Time
}

// Sink records balance evaluations for observability purposes.
type Sink interface {
	RecordBalance(ev BalanceEvent) error
}

// RejectionEvent describes a configuration the engine refused.
type RejectionEvent struct {
	SessionID string
	Reason    string
	Time      time.Time
}

// RejectionRecorder is implemented by sinks that count rejected inputs.
type RejectionRecorder interface {
	RecordRejection(ev RejectionEvent) error
}

// SessionForgetter is implemented by sinks holding per-session series that
// must be dropped when the session ends.
type SessionForgetter interface {
	ForgetSession(id string) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordBalance(BalanceEvent) error     { return nil }
func (NopSink) RecordRejection(RejectionEvent) error { return nil }
func (NopSink) ForgetSession(string) error           { return nil }
