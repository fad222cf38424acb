// Package metrics defines the sinks that observe balance evaluations.
// A Sink receives one BalanceEvent per recomputation; sinks such as the
// Prometheus gauges or the MQTT display publisher are registered by name
// and built from configuration with NewSink. Several configured sinks are
// combined into a MultiSink.
package metrics
