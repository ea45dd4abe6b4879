// Package events defines the module lifecycle events emitted on the event bus.
//
// Each ModuleEvent carries one of the kinds Created, ResourceAcquired,
// Materialized, Released or Failed.
package events
