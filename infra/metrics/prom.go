package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/alfred/core/metrics"
)

// PromSink exposes the latest balance of every session as Prometheus gauges.
type PromSink struct {
	evaluations *prometheus.CounterVec
	rejections  prometheus.Counter
	energy      *prometheus.GaugeVec
	percentUsed *prometheus.GaugeVec
	runtime     *prometheus.GaugeVec
	devices     *prometheus.GaugeVec
}

// NewPromSink registers balance metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alfred_evaluations_total",
			Help: "Total number of balance evaluations by status tier",
		}, []string{"status"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alfred_rejected_configurations_total",
			Help: "Configurations rejected as invalid input or configuration",
		}),
		energy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "alfred_energy_wh",
			Help: "Latest daily energy figures in Wh",
		}, []string{"session", "kind"}),
		percentUsed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "alfred_capacity_used_percent",
			Help: "Daily usage as a percentage of stored capacity",
		}, []string{"session"}),
		runtime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "alfred_runtime_days",
			Help: "Estimated endurance in days, +Inf when self-sustaining",
		}, []string{"session"}),
		devices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "alfred_devices",
			Help: "Number of devices in the session",
		}, []string{"session"}),
	}
	var err error
	if s.evaluations, err = register(reg, s.evaluations); err != nil {
		return nil, err
	}
	if s.rejections, err = register(reg, s.rejections); err != nil {
		return nil, err
	}
	if s.energy, err = register(reg, s.energy); err != nil {
		return nil, err
	}
	if s.percentUsed, err = register(reg, s.percentUsed); err != nil {
		return nil, err
	}
	if s.runtime, err = register(reg, s.runtime); err != nil {
		return nil, err
	}
	if s.devices, err = register(reg, s.devices); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when one exists, so
// several sinks can share a registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBalance updates the session gauges and the status counter.
func (s *PromSink) RecordBalance(ev coremetrics.BalanceEvent) error {
	r := ev.Result
	s.evaluations.WithLabelValues(r.Status.String()).Inc()
	s.energy.WithLabelValues(ev.SessionID, "capacity").Set(r.TotalCapacityWh)
	s.energy.WithLabelValues(ev.SessionID, "usage").Set(r.TotalDailyUsageWh)
	s.energy.WithLabelValues(ev.SessionID, "input").Set(r.TotalDailyInputWh)
	s.energy.WithLabelValues(ev.SessionID, "net").Set(r.NetDailyWh)
	s.percentUsed.WithLabelValues(ev.SessionID).Set(r.PercentCapacityUsed)
	s.runtime.WithLabelValues(ev.SessionID).Set(r.Runtime.Days())
	s.devices.WithLabelValues(ev.SessionID).Set(float64(ev.Devices))
	return nil
}

// RecordRejection counts a rejected configuration.
func (s *PromSink) RecordRejection(coremetrics.RejectionEvent) error {
	s.rejections.Inc()
	return nil
}

// ForgetSession removes the gauges of a closed session.
func (s *PromSink) ForgetSession(id string) error {
	s.energy.DeletePartialMatch(prometheus.Labels{"session": id})
	s.percentUsed.DeleteLabelValues(id)
	s.runtime.DeleteLabelValues(id)
	s.devices.DeleteLabelValues(id)
	return nil
}
