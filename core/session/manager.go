package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/alfred/core/balance"
	"github.com/kilianp07/alfred/core/logger"
	"github.com/kilianp07/alfred/core/metrics"
	"github.com/kilianp07/alfred/core/model"
	"github.com/kilianp07/alfred/core/resolver"
)

// DevicePatch edits one device in place. Nil fields are left unchanged.
// Selecting a Preset overwrites the device hours with the preset value.
type DevicePatch struct {
	Name    *string  `json:"name,omitempty"`
	Watts   *float64 `json:"watts,omitempty"`
	Hours   *float64 `json:"hours,omitempty"`
	Preset  *string  `json:"preset,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// Evaluation is a stateless evaluation of a selection.
type Evaluation struct {
	Config  model.SystemConfiguration `json:"config"`
	Result  model.PowerBalanceResult  `json:"result"`
	Devices []model.DeviceUsage       `json:"devices"`
}

// Manager recomputes a session's balance after every change and reports
// each evaluation to the metrics sink.
type Manager struct {
	store Store
	sink  metrics.Sink
	log   logger.Logger
	now   func() time.Time
}

// NewManager wires a store, a sink and a logger. A nil sink is replaced by
// metrics.NopSink.
func NewManager(store Store, sink metrics.Sink, log logger.Logger) *Manager {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{store: store, sink: sink, log: log, now: time.Now}
}

// Evaluate resolves and evaluates a selection without storing it.
func Evaluate(sel resolver.Selection) (Evaluation, error) {
	cfg, err := resolver.Resolve(sel)
	if err != nil {
		return Evaluation{}, err
	}
	res, err := balance.Evaluate(cfg)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Config: cfg, Result: res, Devices: balance.Breakdown(cfg.Devices)}, nil
}

// recompute derives Config, Devices and Result from the selection.
// Invalid input is returned as an error and the change is refused. An
// invalid configuration (no storage enabled) is kept so the user can fix
// it with the next edit; the session then carries the error and no result.
func recompute(s *Session) error {
	cfg, err := resolver.Resolve(s.Selection)
	if err != nil {
		return err
	}
	s.Config = cfg
	s.Devices = balance.Breakdown(cfg.Devices)
	res, err := balance.Evaluate(cfg)
	switch {
	case err == nil:
		s.Result = &res
		s.Error = ""
	case errors.Is(err, model.ErrInvalidConfiguration):
		s.Result = nil
		s.Error = err.Error()
	default:
		return err
	}
	return nil
}

// Create stores a new session for the selection.
func (m *Manager) Create(sel resolver.Selection) (Session, error) {
	s := Session{Selection: sel}
	if err := recompute(&s); err != nil {
		m.reject("", err)
		return Session{}, err
	}
	s = m.store.Create(s)
	m.log.Infof("session %s created with %d devices", s.ID, len(s.Config.Devices))
	m.record(s)
	return s, nil
}

// Get returns a session.
func (m *Manager) Get(id string) (Session, error) {
	return m.store.Get(id)
}

// List returns all sessions.
func (m *Manager) List() []Session {
	return m.store.List()
}

// Replace swaps the whole selection of a session.
func (m *Manager) Replace(id string, sel resolver.Selection) (Session, error) {
	return m.update(id, func(s *Session) error {
		s.Selection = sel
		return nil
	})
}

// AddDevice appends a device to a session.
func (m *Manager) AddDevice(id string, dev resolver.DeviceSelection) (Session, error) {
	return m.update(id, func(s *Session) error {
		s.Selection.Devices = append(s.Selection.Devices, dev)
		return nil
	})
}

// PatchDevice edits the device at index. Devices are never removed;
// disabling one excludes it from the totals.
func (m *Manager) PatchDevice(id string, index int, p DevicePatch) (Session, error) {
	return m.update(id, func(s *Session) error {
		if index < 0 || index >= len(s.Selection.Devices) {
			return fmt.Errorf("%w: device index %d out of range", model.ErrInvalidInput, index)
		}
		d := &s.Selection.Devices[index]
		if p.Name != nil {
			d.Name = *p.Name
		}
		if p.Watts != nil {
			d.Watts = *p.Watts
		}
		if p.Hours != nil {
			d.Hours = *p.Hours
			d.Preset = resolver.DevicePresetNone
		}
		if p.Preset != nil {
			h, err := resolver.ResolveDeviceHours(*p.Preset, d.Hours)
			if err != nil {
				return err
			}
			d.Preset = *p.Preset
			d.Hours = h
		}
		if p.Enabled != nil {
			d.Disabled = !*p.Enabled
		}
		return nil
	})
}

// Delete removes a session and its metric series.
func (m *Manager) Delete(id string) error {
	if err := m.store.Delete(id); err != nil {
		return err
	}
	if f, ok := m.sink.(metrics.SessionForgetter); ok {
		if err := f.ForgetSession(id); err != nil {
			m.log.Warnf("forget session %s: %v", id, err)
		}
	}
	m.log.Infof("session %s deleted", id)
	return nil
}

func (m *Manager) update(id string, fn func(*Session) error) (Session, error) {
	s, err := m.store.Update(id, func(s *Session) error {
		if err := fn(s); err != nil {
			return err
		}
		return recompute(s)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.reject(id, err)
		}
		return Session{}, err
	}
	m.record(s)
	return s, nil
}

func (m *Manager) record(s Session) {
	if s.Result == nil {
		m.reject(s.ID, errors.New(s.Error))
		return
	}
	m.log.Debugw("balance evaluated", map[string]any{
		"session":  s.ID,
		"status":   s.Result.Status.String(),
		"usage_wh": s.Result.TotalDailyUsageWh,
		"input_wh": s.Result.TotalDailyInputWh,
		"runtime":  s.Result.Runtime.String(),
	})
	ev := metrics.BalanceEvent{SessionID: s.ID, Result: *s.Result, Devices: len(s.Config.Devices), Time: m.now()}
	if err := m.sink.RecordBalance(ev); err != nil {
		m.log.Errorf("record balance for %s: %v", s.ID, err)
	}
}

func (m *Manager) reject(id string, err error) {
	m.log.Warnf("session %q rejected: %v", id, err)
	rec, ok := m.sink.(metrics.RejectionRecorder)
	if !ok {
		return
	}
	if rerr := rec.RecordRejection(metrics.RejectionEvent{SessionID: id, Reason: err.Error(), Time: m.now()}); rerr != nil {
		m.log.Errorf("record rejection: %v", rerr)
	}
}
