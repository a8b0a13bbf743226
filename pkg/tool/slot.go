package tool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/chazu/solidviz/pkg/kernel"
)

// ErrSuperseded is returned by Slot.Rebuild when a newer rebuild started
// before this one finished. The newer result wins.
var ErrSuperseded = errors.New("rebuild superseded by newer request")

// Slot holds the one mesh currently displayed for a tool.
//
// Readers call Load and always see either the previous mesh or a complete
// new one. A failed rebuild leaves the previous mesh in place.
type Slot struct {
	mesh atomic.Pointer[kernel.Mesh]

	mu         sync.Mutex
	generation uint64
}

// Load returns the current mesh, or nil if none has been built.
func (s *Slot) Load() *kernel.Mesh {
	return s.mesh.Load()
}

// Generation returns the number of rebuilds started so far.
func (s *Slot) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Rebuild builds st and installs the result if no newer rebuild has
// started meanwhile.
func (s *Slot) Rebuild(st State, k kernel.Kernel) (*kernel.Mesh, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	m, err := Build(st, k)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, ErrSuperseded
	}
	s.mesh.Store(m)
	return m, nil
}

// Clear removes the displayed mesh.
func (s *Slot) Clear() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
	s.mesh.Store(nil)
}
