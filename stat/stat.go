// File: stat/stat.go
// Package stat is the statistics sink: a thread-safe metrics registry
// with named debug probes. The SIGUSR1-armed dump callback (see
// package lifecycle) calls Dump, which snapshots
// every registered probe and retains a bounded history so a second dump
// shortly after the first does not lose the prior sample.
// Author: trema-go
// License: Apache-2.0
package stat

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// defaultHistoryCap bounds the number of retained dump snapshots so a
// runaway SIGUSR1 sender cannot grow the sink without limit.
const defaultHistoryCap = 64

// Snapshot is one point-in-time rendering of the sink's metrics and probes.
type Snapshot struct {
	At     time.Time
	Values map[string]any
}

// Sink is the stat subsystem. The zero value is not usable; construct one
// with Init.
type Sink struct {
	mu         sync.RWMutex
	metrics    map[string]any
	probes     map[string]func() any
	history    *queue.Queue
	historyCap int
	finalized  bool
}

// Init creates and starts a Sink, mirroring the source's init_stat().
func Init() *Sink {
	return &Sink{
		metrics:    make(map[string]any),
		probes:     make(map[string]func() any),
		history:    queue.New(),
		historyCap: defaultHistoryCap,
	}
}

// Finalize tears down the sink. After Finalize, Set and RegisterProbe are
// no-ops, and Dump still renders the metrics and probes registered before
// Finalize but no longer adds the result to the history.
func (s *Sink) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized = true
	return nil
}

// Set records or updates a named metric value.
func (s *Sink) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return
	}
	s.metrics[key] = value
}

// RegisterProbe adds a named probe function, invoked on every Dump.
func (s *Sink) RegisterProbe(name string, fn func() any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return
	}
	s.probes[name] = fn
}

// Dump renders the current metrics and probe outputs, stores the result in
// the bounded history queue (evicting the oldest entry once historyCap is
// exceeded), and returns it. This is the function wired as the external
// callback that SIGUSR1 arms on the timer, see lifecycle.Coordinator.
func (s *Sink) Dump() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]any, len(s.metrics)+len(s.probes))
	for k, v := range s.metrics {
		values[k] = v
	}
	for name, fn := range s.probes {
		values[name] = fn()
	}
	snap := Snapshot{At: time.Now(), Values: values}

	if s.finalized {
		return snap
	}
	s.history.Add(snap)
	for s.history.Length() > s.historyCap {
		s.history.Remove()
	}
	return snap
}

// History returns the retained dump snapshots, oldest first.
func (s *Sink) History() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, s.history.Length())
	for i := range out {
		out[i] = s.history.Get(i).(Snapshot)
	}
	return out
}
