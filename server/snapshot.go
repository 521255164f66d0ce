// Package server serves life expectancy predictions over HTTP.
//
// Handlers read the current model from a Snapshot without locking. The
// model is only ever replaced as a whole, by Store, which the Watcher calls
// when the weights file changes on disk.
package server

import (
	"sync/atomic"

	"github.com/ezoic/lifeexp/linear"
)

// Snapshot publishes immutable linear.Params to concurrent readers.
type Snapshot struct {
	p atomic.Pointer[linear.Params]
}

// NewSnapshot returns a Snapshot holding p.
func NewSnapshot(p linear.Params) *Snapshot {
	s := &Snapshot{}
	s.Store(p)
	return s
}

// Load returns the current parameters.
func (s *Snapshot) Load() linear.Params {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return linear.Params{}
}

// Store replaces the current parameters.
func (s *Snapshot) Store(p linear.Params) {
	s.p.Store(&p)
}
