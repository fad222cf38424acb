// Package infra holds the adapters behind the core interfaces: zerolog
// logging, the Prometheus sink and the MQTT balance publisher.
package infra
