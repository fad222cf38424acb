package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/alfred/core/factory"
	coremetrics "github.com/kilianp07/alfred/core/metrics"
	"github.com/kilianp07/alfred/infra/mqtt"
)

// Registerer is the Prometheus registerer used by the "prometheus" sink
// factory. Tests replace it with a private registry.
var Registerer prometheus.Registerer = prometheus.DefaultRegisterer

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		return NewPromSinkWithRegistry(Registerer)
	})

	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.Sink, error) {
		var c mqtt.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return mqtt.NewBalancePublisher(c)
	})
}
