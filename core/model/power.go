package model

import (
	"fmt"
	"math"
)

// HoursPerDay bounds the daily usage of a single device.
const HoursPerDay = 24.0

// PowerSource is one storage or charging subsystem such as a battery bank,
// an auxiliary power pack or the solar array.
type PowerSource struct {
	Name         string  `json:"name"`
	Enabled      bool    `json:"enabled"`
	CapacityWh   float64 `json:"capacity_wh"`    // usable stored energy
	DailyInputWh float64 `json:"daily_input_wh"` // energy added per day
}

// ValidAmount reports whether v is a finite, non-negative quantity.
func ValidAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// Validate checks that the source holds no negative energy figures.
func (s PowerSource) Validate() error {
	if !ValidAmount(s.CapacityWh) {
		return fmt.Errorf("%w: source %q capacity %v Wh", ErrInvalidInput, s.Name, s.CapacityWh)
	}
	if !ValidAmount(s.DailyInputWh) {
		return fmt.Errorf("%w: source %q daily input %v Wh", ErrInvalidInput, s.Name, s.DailyInputWh)
	}
	return nil
}

// Contribution returns the capacity and daily input the source adds to the
// system. Disabled sources contribute nothing.
func (s PowerSource) Contribution() (capacityWh, dailyInputWh float64) {
	if !s.Enabled {
		return 0, 0
	}
	return s.CapacityWh, s.DailyInputWh
}

// Device is one electrical load.
type Device struct {
	Name        string  `json:"name"`
	Watts       float64 `json:"watts"`
	HoursPerDay float64 `json:"hours_per_day"`
	Enabled     bool    `json:"enabled"`
}

// Validate rejects negative power draw and usage outside [0, 24] hours.
func (d Device) Validate() error {
	if !ValidAmount(d.Watts) {
		return fmt.Errorf("%w: device %q watts %v", ErrInvalidInput, d.Name, d.Watts)
	}
	if !ValidAmount(d.HoursPerDay) || d.HoursPerDay > HoursPerDay {
		return fmt.Errorf("%w: device %q hours per day %v", ErrInvalidInput, d.Name, d.HoursPerDay)
	}
	return nil
}

// DailyWh is the energy the device draws per day when enabled.
func (d Device) DailyWh() float64 {
	return d.Watts * d.HoursPerDay
}

// DeviceUsage is one row of the per-device consumption table.
type DeviceUsage struct {
	Name        string  `json:"name"`
	Watts       float64 `json:"watts"`
	HoursPerDay float64 `json:"hours_per_day"`
	DailyWh     float64 `json:"daily_wh"`
	Enabled     bool    `json:"enabled"`
}

// SystemConfiguration aggregates the power sources and devices of one van.
// It is passed by value to the engine and never retained.
type SystemConfiguration struct {
	Sources []PowerSource `json:"sources"`
	Devices []Device      `json:"devices"`
}

// TotalCapacityWh sums the capacity of all enabled sources.
func (c SystemConfiguration) TotalCapacityWh() float64 {
	total := 0.0
	for _, s := range c.Sources {
		capWh, _ := s.Contribution()
		total += capWh
	}
	return total
}

// TotalDailyInputWh sums the daily input of all enabled sources.
func (c SystemConfiguration) TotalDailyInputWh() float64 {
	total := 0.0
	for _, s := range c.Sources {
		_, in := s.Contribution()
		total += in
	}
	return total
}

// Clone returns a deep copy so callers can edit the device list without
// touching a configuration that is being evaluated elsewhere.
func (c SystemConfiguration) Clone() SystemConfiguration {
	out := SystemConfiguration{
		Sources: make([]PowerSource, len(c.Sources)),
		Devices: make([]Device, len(c.Devices)),
	}
	copy(out.Sources, c.Sources)
	copy(out.Devices, c.Devices)
	return out
}

// PowerBalanceResult is the engine output for one configuration.
type PowerBalanceResult struct {
	TotalCapacityWh     float64    `json:"total_capacity_wh"`
	TotalDailyUsageWh   float64    `json:"total_daily_usage_wh"`
	TotalDailyInputWh   float64    `json:"total_daily_input_wh"`
	NetDailyWh          float64    `json:"net_daily_wh"`
	PercentCapacityUsed float64    `json:"percent_capacity_used"`
	Runtime             Runtime    `json:"runtime_days"`
	Status              StatusTier `json:"status"`
}
