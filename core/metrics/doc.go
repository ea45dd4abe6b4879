// Package metrics defines the recorder the assembler reports module
// lifecycle measurements to. Recorders are themselves modules: the
// "metrics" configuration section names one from the Recorders registry.
package metrics
