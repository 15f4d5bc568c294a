/*
© 2020–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package evid mints uuid-backed correlation identifiers for tasks,
// task groups, and loops.
package evid

import "github.com/google/uuid"

// EntityID uniquely identifies a Task, TaskGroup, or EventThread for
// logging and diagnostics.
type EntityID uuid.UUID

// New mints a fresh EntityID.
func New() EntityID { return EntityID(uuid.New()) }

func (id EntityID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id was never assigned.
func (id EntityID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
