package balance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/alfred/core/model"
)

// Runtime thresholds in days used for status tiering.
const (
	StableRuntimeDays   = 3.0
	CriticalRuntimeDays = 1.0
)

// ComputeUsage returns the daily energy drawn by the enabled devices.
// Every device is validated, including disabled ones.
func ComputeUsage(devices []model.Device) (float64, error) {
	wh := make([]float64, 0, len(devices))
	for _, d := range devices {
		if err := d.Validate(); err != nil {
			return 0, err
		}
		if d.Enabled {
			wh = append(wh, d.DailyWh())
		}
	}
	return floats.Sum(wh), nil
}

// ComputeInput returns the daily energy added by the enabled sources.
func ComputeInput(sources []model.PowerSource) (float64, error) {
	wh := make([]float64, len(sources))
	for i, s := range sources {
		if err := s.Validate(); err != nil {
			return 0, err
		}
		_, wh[i] = s.Contribution()
	}
	return floats.Sum(wh), nil
}

// ComputeCapacity returns the stored energy of the enabled sources.
func ComputeCapacity(sources []model.PowerSource) (float64, error) {
	wh := make([]float64, len(sources))
	for i, s := range sources {
		if err := s.Validate(); err != nil {
			return 0, err
		}
		wh[i], _ = s.Contribution()
	}
	return floats.Sum(wh), nil
}

// ComputeBalance derives the balance result from aggregate figures.
// capacityWh must be positive; usage and input must not be negative.
// When usage does not exceed input the runtime is infinite, so the
// deficit used as divisor is always strictly positive.
func ComputeBalance(capacityWh, usageWh, inputWh float64) (model.PowerBalanceResult, error) {
	if capacityWh <= 0 || !model.ValidAmount(capacityWh) {
		return model.PowerBalanceResult{}, fmt.Errorf("%w: total capacity %v Wh, at least one storage source must be enabled",
			model.ErrInvalidConfiguration, capacityWh)
	}
	if !model.ValidAmount(usageWh) {
		return model.PowerBalanceResult{}, fmt.Errorf("%w: daily usage %v Wh", model.ErrInvalidInput, usageWh)
	}
	if !model.ValidAmount(inputWh) {
		return model.PowerBalanceResult{}, fmt.Errorf("%w: daily input %v Wh", model.ErrInvalidInput, inputWh)
	}

	runtime := model.InfiniteRuntime()
	if usageWh > inputWh {
		runtime = model.FiniteRuntime(capacityWh / (usageWh - inputWh))
	}
	return model.PowerBalanceResult{
		TotalCapacityWh:     capacityWh,
		TotalDailyUsageWh:   usageWh,
		TotalDailyInputWh:   inputWh,
		NetDailyWh:          inputWh - usageWh,
		PercentCapacityUsed: math.Min(100, usageWh/capacityWh*100),
		Runtime:             runtime,
		Status:              Classify(usageWh, inputWh, runtime),
	}, nil
}

// Classify assigns the status tier. The first matching rule wins:
// input covering usage, then at least three days, then under one day.
func Classify(usageWh, inputWh float64, runtime model.Runtime) model.StatusTier {
	switch {
	case inputWh >= usageWh:
		return model.StatusSustainable
	case runtime.Days() >= StableRuntimeDays:
		return model.StatusStable
	case runtime.Days() < CriticalRuntimeDays:
		return model.StatusCritical
	default:
		return model.StatusModerate
	}
}

// Evaluate validates a configuration and computes its balance. No partial
// result is returned on error.
func Evaluate(cfg model.SystemConfiguration) (model.PowerBalanceResult, error) {
	usage, err := ComputeUsage(cfg.Devices)
	if err != nil {
		return model.PowerBalanceResult{}, err
	}
	capacity, err := ComputeCapacity(cfg.Sources)
	if err != nil {
		return model.PowerBalanceResult{}, err
	}
	input, err := ComputeInput(cfg.Sources)
	if err != nil {
		return model.PowerBalanceResult{}, err
	}
	return ComputeBalance(capacity, usage, input)
}

// Breakdown returns the per-device consumption table. Disabled devices
// are listed with zero daily energy.
func Breakdown(devices []model.Device) []model.DeviceUsage {
	rows := make([]model.DeviceUsage, len(devices))
	for i, d := range devices {
		rows[i] = model.DeviceUsage{
			Name:        d.Name,
			Watts:       d.Watts,
			HoursPerDay: d.HoursPerDay,
			Enabled:     d.Enabled,
		}
		if d.Enabled {
			rows[i].DailyWh = d.DailyWh()
		}
	}
	return rows
}
