package resolver

import (
	"fmt"

	"github.com/kilianp07/alfred/core/model"
)

// Source names used in resolved configurations.
const (
	SourceBatteryBank = "battery_bank"
	SourceAuxPack     = "aux_pack"
	SourceSolar       = "solar"
	SourceAlternator  = "alternator"
)

// StorageSelection describes the battery bank and auxiliary pack.
type StorageSelection struct {
	Batteries int  `json:"batteries"`
	AuxPack   bool `json:"aux_pack"`
}

// SolarSelection describes the solar array. TotalWatts, when non-zero, takes
// precedence over Panels × WattsPerPanel. Efficiency selects a sunlight
// tier; "custom" or empty uses SunlightHours.
type SolarSelection struct {
	Disabled      bool    `json:"disabled"`
	Panels        int     `json:"panels"`
	WattsPerPanel float64 `json:"watts_per_panel"`
	TotalWatts    float64 `json:"total_watts"`
	Efficiency    string  `json:"efficiency"`
	SunlightHours float64 `json:"sunlight_hours"`
}

// AlternatorSelection describes drive-time charging.
type AlternatorSelection struct {
	Disabled bool    `json:"disabled"`
	Preset   string  `json:"preset"`
	Hours    float64 `json:"hours"`
}

// DeviceSelection is a device as entered on the form.
type DeviceSelection struct {
	Name     string  `json:"name"`
	Watts    float64 `json:"watts"`
	Hours    float64 `json:"hours"`
	Preset   string  `json:"preset"`
	Disabled bool    `json:"disabled"`
}

// Selection is the complete set of user choices for one van.
type Selection struct {
	Storage    StorageSelection    `json:"storage"`
	Solar      SolarSelection      `json:"solar"`
	Alternator AlternatorSelection `json:"alternator"`
	Devices    []DeviceSelection   `json:"devices"`
}

func nonNegative(field string, v float64) error {
	if !model.ValidAmount(v) {
		return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", model.ErrInvalidInput, field, v)
	}
	return nil
}

// BankCapacity returns the capacity of a bank of count batteries.
func BankCapacity(count int) (float64, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: battery count must not be negative, got %d", model.ErrInvalidInput, count)
	}
	return float64(count) * BatteryUnitWh, nil
}

// ResolveStorage returns the total storage of the selection in Wh,
// including the auxiliary pack when enabled.
func ResolveStorage(sel StorageSelection) (float64, error) {
	wh, err := BankCapacity(sel.Batteries)
	if err != nil {
		return 0, err
	}
	if sel.AuxPack {
		wh += AuxPackWh
	}
	return wh, nil
}

// ResolveSolarInput returns the daily solar yield of panels × wattsPerPanel
// over sunlightHours.
func ResolveSolarInput(panels int, wattsPerPanel, sunlightHours float64) (float64, error) {
	if panels < 0 {
		return 0, fmt.Errorf("%w: panel count must not be negative, got %d", model.ErrInvalidInput, panels)
	}
	if err := nonNegative("watts per panel", wattsPerPanel); err != nil {
		return 0, err
	}
	return ResolveSolarInputTotal(float64(panels)*wattsPerPanel, sunlightHours)
}

// ResolveSolarInputTotal returns the daily solar yield of an array of
// totalWatts over sunlightHours.
func ResolveSolarInputTotal(totalWatts, sunlightHours float64) (float64, error) {
	if err := nonNegative("solar watts", totalWatts); err != nil {
		return 0, err
	}
	if err := nonNegative("sunlight hours", sunlightHours); err != nil {
		return 0, err
	}
	if sunlightHours > model.HoursPerDay {
		return 0, fmt.Errorf("%w: sunlight hours %v exceed a day", model.ErrInvalidInput, sunlightHours)
	}
	return totalWatts * sunlightHours, nil
}

// SunlightHours resolves an efficiency tier. Empty or "custom" returns
// custom unchanged.
func SunlightHours(tier string, custom float64) (float64, error) {
	if tier == "" || tier == EfficiencyCustom {
		if err := nonNegative("sunlight hours", custom); err != nil {
			return 0, err
		}
		return custom, nil
	}
	h, ok := sunlightHours[tier]
	if !ok {
		return 0, fmt.Errorf("%w: unknown efficiency tier %q", model.ErrInvalidInput, tier)
	}
	return h, nil
}

// ResolveAlternatorInput returns the daily energy from driveHours of
// alternator charging.
func ResolveAlternatorInput(driveHours float64) (float64, error) {
	if err := nonNegative("drive hours", driveHours); err != nil {
		return 0, err
	}
	return driveHours * AlternatorWatts, nil
}

// DriveHours resolves a drive-time preset. Empty or "custom" accepts a
// value in [0, MaxCustomDriveH].
func DriveHours(preset string, custom float64) (float64, error) {
	if preset == "" || preset == DriveCustom {
		if err := nonNegative("drive hours", custom); err != nil {
			return 0, err
		}
		if custom > MaxCustomDriveH {
			return 0, fmt.Errorf("%w: drive hours %v exceed %v", model.ErrInvalidInput, custom, MaxCustomDriveH)
		}
		return custom, nil
	}
	h, ok := driveHours[preset]
	if !ok {
		return 0, fmt.Errorf("%w: unknown drive preset %q", model.ErrInvalidInput, preset)
	}
	return h, nil
}

// ResolveDeviceHours returns the preset hours when a preset is selected,
// otherwise custom unchanged. A preset overrides custom even when custom
// is invalid.
func ResolveDeviceHours(preset string, custom float64) (float64, error) {
	if preset == "" || preset == DevicePresetNone {
		if err := nonNegative("device hours", custom); err != nil {
			return 0, err
		}
		return custom, nil
	}
	h, ok := deviceHours[preset]
	if !ok {
		return 0, fmt.Errorf("%w: unknown device preset %q", model.ErrInvalidInput, preset)
	}
	return h, nil
}

// ResolveDevice builds a model.Device from a form entry.
func ResolveDevice(sel DeviceSelection) (model.Device, error) {
	hours, err := ResolveDeviceHours(sel.Preset, sel.Hours)
	if err != nil {
		return model.Device{}, err
	}
	d := model.Device{Name: sel.Name, Watts: sel.Watts, HoursPerDay: hours, Enabled: !sel.Disabled}
	if err := d.Validate(); err != nil {
		return model.Device{}, err
	}
	return d, nil
}

func resolveSolar(sel SolarSelection) (float64, error) {
	if sel.Disabled {
		return 0, nil
	}
	hours, err := SunlightHours(sel.Efficiency, sel.SunlightHours)
	if err != nil {
		return 0, err
	}
	if sel.TotalWatts != 0 {
		return ResolveSolarInputTotal(sel.TotalWatts, hours)
	}
	return ResolveSolarInput(sel.Panels, sel.WattsPerPanel, hours)
}

func resolveAlternator(sel AlternatorSelection) (float64, error) {
	if sel.Disabled {
		return 0, nil
	}
	hours, err := DriveHours(sel.Preset, sel.Hours)
	if err != nil {
		return 0, err
	}
	return ResolveAlternatorInput(hours)
}

// Resolve builds the system configuration for a selection. The battery
// bank and auxiliary pack are storage sources; solar and alternator are
// charging sources with no capacity.
func Resolve(sel Selection) (model.SystemConfiguration, error) {
	bank, err := BankCapacity(sel.Storage.Batteries)
	if err != nil {
		return model.SystemConfiguration{}, err
	}
	solar, err := resolveSolar(sel.Solar)
	if err != nil {
		return model.SystemConfiguration{}, err
	}
	alt, err := resolveAlternator(sel.Alternator)
	if err != nil {
		return model.SystemConfiguration{}, err
	}
	cfg := model.SystemConfiguration{
		Sources: []model.PowerSource{
			{Name: SourceBatteryBank, Enabled: sel.Storage.Batteries > 0, CapacityWh: bank},
			{Name: SourceAuxPack, Enabled: sel.Storage.AuxPack, CapacityWh: AuxPackWh},
			{Name: SourceSolar, Enabled: !sel.Solar.Disabled, DailyInputWh: solar},
			{Name: SourceAlternator, Enabled: !sel.Alternator.Disabled, DailyInputWh: alt},
		},
		Devices: make([]model.Device, 0, len(sel.Devices)),
	}
	for i, ds := range sel.Devices {
		d, err := ResolveDevice(ds)
		if err != nil {
			return model.SystemConfiguration{}, fmt.Errorf("device %d: %w", i, err)
		}
		cfg.Devices = append(cfg.Devices, d)
	}
	return cfg, nil
}
