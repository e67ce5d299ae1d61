// File: ofapi/ofapi.go
// Package ofapi is the minimal OpenFlow application interface seam:
// the lifecycle coordinator queries it during Finalize ordering but
// does not own its lifecycle. A real
// deployment wires this to whatever OpenFlow message dispatch the
// application layer provides; this package only defines the seam.
// Author: trema-go
// License: Apache-2.0
package ofapi

// Collaborator is the contract the lifecycle coordinator expects from the
// OpenFlow application layer during startup and shutdown ordering.
type Collaborator interface {
	IsInitialized() bool
	Finalize() error
}

// Noop is a Collaborator that is always initialized and never fails to
// finalize, used when an application has no OpenFlow message layer of its
// own (e.g. the path-resolver-only sample).
type Noop struct{}

func (Noop) IsInitialized() bool { return true }

func (Noop) Finalize() error { return nil }
