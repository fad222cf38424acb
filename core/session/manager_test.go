package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/alfred/core/metrics"
	"github.com/kilianp07/alfred/core/model"
	"github.com/kilianp07/alfred/core/resolver"
	"github.com/kilianp07/alfred/infra/logger"
)

type recordingSink struct {
	mu         sync.Mutex
	balances   []metrics.BalanceEvent
	rejections []metrics.RejectionEvent
	forgotten  []string
}

func (r *recordingSink) RecordBalance(ev metrics.BalanceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances = append(r.balances, ev)
	return nil
}

func (r *recordingSink) RecordRejection(ev metrics.RejectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections = append(r.rejections, ev)
	return nil
}

func (r *recordingSink) ForgetSession(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forgotten = append(r.forgotten, id)
	return nil
}

func vanSelection() resolver.Selection {
	return resolver.Selection{
		Storage:    resolver.StorageSelection{Batteries: 3},
		Solar:      resolver.SolarSelection{Panels: 2, WattsPerPanel: 200, SunlightHours: 4},
		Alternator: resolver.AlternatorSelection{Preset: resolver.DriveHalfHour},
		Devices: []resolver.DeviceSelection{
			{Name: "fridge", Watts: 50, Hours: 10},
			{Name: "heater", Watts: 20, Hours: 2},
		},
	}
}

func newTestManager() (*Manager, *recordingSink) {
	sink := &recordingSink{}
	return NewManager(NewMemoryStore(), sink, logger.NopLogger{}), sink
}

func TestEvaluateStateless(t *testing.T) {
	ev, err := Evaluate(vanSelection())
	require.NoError(t, err)
	assert.Equal(t, model.StatusSustainable, ev.Result.Status)
	assert.Equal(t, 540.0, ev.Result.TotalDailyUsageWh)
	assert.Len(t, ev.Devices, 2)

	_, err = Evaluate(resolver.Selection{Devices: []resolver.DeviceSelection{{Name: "fan", Watts: 10, Hours: 1}}})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestManagerCreateRecordsBalance(t *testing.T) {
	m, sink := newTestManager()
	s, err := m.Create(vanSelection())
	require.NoError(t, err)
	require.NotNil(t, s.Result)
	assert.Equal(t, model.StatusSustainable, s.Result.Status)
	require.Len(t, sink.balances, 1)
	assert.Equal(t, s.ID, sink.balances[0].SessionID)
	assert.Equal(t, 2, sink.balances[0].Devices)
}

func TestManagerCreateRejectsInvalidInput(t *testing.T) {
	m, sink := newTestManager()
	sel := vanSelection()
	sel.Devices[0].Watts = -1
	_, err := m.Create(sel)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Len(t, sink.rejections, 1)
	assert.Empty(t, m.List())
}

func TestManagerPatchDevicePreset(t *testing.T) {
	m, _ := newTestManager()
	s, err := m.Create(vanSelection())
	require.NoError(t, err)

	preset := resolver.DevicePresetAllTheTime
	s, err = m.PatchDevice(s.ID, 0, DevicePatch{Preset: &preset})
	require.NoError(t, err)
	assert.Equal(t, 24.0, s.Config.Devices[0].HoursPerDay)
	assert.Equal(t, 24.0, s.Selection.Devices[0].Hours)
	assert.Equal(t, 1240.0, s.Result.TotalDailyUsageWh)

	hours := 3.0
	s, err = m.PatchDevice(s.ID, 0, DevicePatch{Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Config.Devices[0].HoursPerDay)
	assert.Equal(t, resolver.DevicePresetNone, s.Selection.Devices[0].Preset)
}

func TestManagerDisableDeviceKeepsIt(t *testing.T) {
	m, _ := newTestManager()
	s, err := m.Create(vanSelection())
	require.NoError(t, err)
	off := false
	s, err = m.PatchDevice(s.ID, 1, DevicePatch{Enabled: &off})
	require.NoError(t, err)
	assert.Len(t, s.Config.Devices, 2)
	assert.Equal(t, 500.0, s.Result.TotalDailyUsageWh)
	assert.Equal(t, 0.0, s.Devices[1].DailyWh)
}

func TestManagerPatchDeviceRejectsInvalid(t *testing.T) {
	m, sink := newTestManager()
	s, err := m.Create(vanSelection())
	require.NoError(t, err)

	neg := -10.0
	_, err = m.PatchDevice(s.ID, 0, DevicePatch{Watts: &neg})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = m.PatchDevice(s.ID, 9, DevicePatch{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Len(t, sink.rejections, 2)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Selection.Devices[0].Watts)
}

func TestManagerKeepsInvalidConfiguration(t *testing.T) {
	m, sink := newTestManager()
	s, err := m.Create(vanSelection())
	require.NoError(t, err)

	sel := vanSelection()
	sel.Storage.Batteries = 0
	s, err = m.Replace(s.ID, sel)
	require.NoError(t, err)
	assert.Nil(t, s.Result)
	assert.Contains(t, s.Error, model.ErrInvalidConfiguration.Error())
	assert.Len(t, sink.rejections, 1)

	sel.Storage.AuxPack = true
	s, err = m.Replace(s.ID, sel)
	require.NoError(t, err)
	require.NotNil(t, s.Result)
	assert.Empty(t, s.Error)
	assert.Equal(t, 3600.0, s.Result.TotalCapacityWh)
}

func TestManagerAddAndDelete(t *testing.T) {
	m, sink := newTestManager()
	s, err := m.Create(vanSelection())
	require.NoError(t, err)
	s, err = m.AddDevice(s.ID, resolver.DeviceSelection{Name: "laptop", Watts: 60, Preset: resolver.DevicePresetWorkingDay})
	require.NoError(t, err)
	assert.Equal(t, 1140.0, s.Result.TotalDailyUsageWh)

	require.NoError(t, m.Delete(s.ID))
	assert.Equal(t, []string{s.ID}, sink.forgotten)
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(s.ID), ErrNotFound)
	_, err = m.Replace(s.ID, vanSelection())
	assert.ErrorIs(t, err, ErrNotFound)
}
