// File: topology/topology.go
// Package topology models the immutable link-state snapshot exported by the
// external topology discovery service. The core never mutates a Snapshot;
// it only ever reads one that a Provider hands it for the duration of a
// single path resolution.
// Author: trema-go
// License: Apache-2.0
package topology

// DPID identifies an OpenFlow switch (datapath).
type DPID uint64

// PortNo identifies a port within a switch.
type PortNo uint16

// Switch is a discovered datapath.
type Switch struct {
	DPID DPID
}

// Port is a (switch, port number) pair together with its up/down status.
type Port struct {
	DPID DPID
	No   PortNo
	Up   bool
}

// Link is a directed, switch-to-switch connection.
type Link struct {
	FromDPID DPID
	FromPort PortNo
	ToDPID   DPID
	ToPort   PortNo
	Up       bool
}

// Snapshot is an immutable view of the discovered topology at one instant.
// The zero value is an empty topology.
type Snapshot struct {
	Switches []Switch
	Ports    []Port
	Links    []Link
}

// Provider is the external collaborator that supplies topology snapshots.
// The source consumes topology purely via callback deliveries of the
// current switch/link arrays; Provider models that same boundary: each
// call returns a fresh, independent snapshot, and the resolver never holds
// a reference beyond one resolution.
type Provider interface {
	// Snapshot returns the current topology view.
	Snapshot() Snapshot
}

// StaticProvider serves a fixed Snapshot, set once at construction. It is
// useful for tests and for callers that manage their own caching with an
// external version counter.
type StaticProvider struct {
	snapshot Snapshot
}

// NewStaticProvider returns a Provider that always serves snapshot.
func NewStaticProvider(snapshot Snapshot) *StaticProvider {
	return &StaticProvider{snapshot: snapshot}
}

// Snapshot implements Provider.
func (p *StaticProvider) Snapshot() Snapshot {
	return p.snapshot
}

// HasSwitch reports whether dpid appears in the snapshot.
func (s Snapshot) HasSwitch(dpid DPID) bool {
	for _, sw := range s.Switches {
		if sw.DPID == dpid {
			return true
		}
	}
	return false
}
