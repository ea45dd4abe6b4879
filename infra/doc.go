// Package infra contains technical adapters: the koanf configuration
// reader, the zerolog logger and the Prometheus recorder. These packages
// depend only on the interfaces defined in the core packages.
package infra
