package tool

import "fmt"

// Scene is the ordered set of tools produced by evaluating a scene script.
// Each evaluation produces a new scene; it is not mutated once returned.
type Scene struct {
	Tools     []State        `json:"tools"`
	NameIndex map[string]int `json:"nameIndex"`
	Version   uint64         `json:"version"`
}

// NewScene creates an empty Scene.
func NewScene() *Scene {
	return &Scene{NameIndex: make(map[string]int)}
}

// Add appends a tool. It does not check for duplicate names; ValidateScene
// reports them.
func (s *Scene) Add(st State) {
	s.Tools = append(s.Tools, st)
	if st.Name != "" {
		if _, ok := s.NameIndex[st.Name]; !ok {
			s.NameIndex[st.Name] = len(s.Tools) - 1
		}
	}
}

// Lookup returns the first tool with the given name, or nil.
func (s *Scene) Lookup(name string) *State {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return &s.Tools[i]
}

// MustLookup returns the tool with the given name, or panics.
func (s *Scene) MustLookup(name string) *State {
	st := s.Lookup(name)
	if st == nil {
		panic(fmt.Sprintf("tool: no tool named %q", name))
	}
	return st
}

// Len returns the number of tools.
func (s *Scene) Len() int {
	return len(s.Tools)
}
