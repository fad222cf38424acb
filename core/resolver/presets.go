package resolver

import "sort"

// Modeled hardware constants.
const (
	BatteryAmpHours  = 200.0 // per battery unit
	SystemVolts      = 12.0
	BatteryUnitWh    = BatteryAmpHours * SystemVolts
	AuxPackWh        = 3600.0 // auxiliary power pack
	AlternatorAmps   = 40.0   // DC-DC charger current
	AlternatorWatts  = AlternatorAmps * SystemVolts
	MaxCustomDriveH  = 5.0
	DefaultBatteries = 3
)

// BatteryBankOptions are the bank sizes offered by the dashboard slider.
// Any positive count is accepted by ResolveStorage.
var BatteryBankOptions = []int{1, 2, 3, 4}

// Solar efficiency tiers mapped to sunlight hours per day.
const (
	EfficiencyLow    = "low"
	EfficiencyMedium = "medium"
	EfficiencyHigh   = "high"
	EfficiencyCustom = "custom"
)

var sunlightHours = map[string]float64{
	EfficiencyLow:    2,
	EfficiencyMedium: 4,
	EfficiencyHigh:   6,
}

// Drive-time presets mapped to hours of alternator charging.
const (
	DriveHalfHour = "30m"
	DriveOneHour  = "1h"
	DriveCustom   = "custom"
)

var driveHours = map[string]float64{
	DriveHalfHour: 0.5,
	DriveOneHour:  1,
}

// Device quick-select presets mapped to hours per day.
const (
	DevicePresetNone       = "none"
	DevicePresetWorkingDay = "working_day"
	DevicePresetMealtimes  = "mealtimes"
	DevicePresetDaytime    = "daytime"
	DevicePresetAllTheTime = "all_the_time"
)

var deviceHours = map[string]float64{
	DevicePresetWorkingDay: 10,
	DevicePresetMealtimes:  0.5,
	DevicePresetDaytime:    14,
	DevicePresetAllTheTime: 24,
}

// Preset is one named entry of a preset table.
type Preset struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

// SunlightPresets lists the solar efficiency tiers.
func SunlightPresets() []Preset { return table(sunlightHours) }

// DrivePresets lists the drive-time options.
func DrivePresets() []Preset { return table(driveHours) }

// DeviceHourPresets lists the device quick-select options.
func DeviceHourPresets() []Preset { return table(deviceHours) }

func table(m map[string]float64) []Preset {
	out := make([]Preset, 0, len(m))
	for k, v := range m {
		out = append(out, Preset{Name: k, Hours: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hours == out[j].Hours {
			return out[i].Name < out[j].Name
		}
		return out[i].Hours < out[j].Hours
	})
	return out
}
