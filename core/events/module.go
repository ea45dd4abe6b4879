package events

import "time"

// Kind identifies a lifecycle step.
type Kind string

const (
	Created          Kind = "created"
	ResourceAcquired Kind = "resource_acquired"
	Materialized     Kind = "materialized"
	Released         Kind = "released"
	Failed           Kind = "failed"
)

// ModuleEvent is published by the assembler for every module it handles.
type ModuleEvent struct {
	Kind    Kind
	Section string
	Module  string
	ID      string
	Err     error
	Time    time.Time
}
