package config

import (
	"fmt"
	"sort"
)

// Model is the unified representation of every system found in a workspace.
type Model struct {
	Systems []*System
}

// System is one named block of equations together with its input bindings.
type System struct {
	Name        string
	Description string
	// Source is the file the system was loaded from, or empty for systems
	// built from command-line input.
	Source string
	// Equations is the raw equation text, one equation per line.
	Equations string
	// Bindings maps a free variable to its value. A nil value marks the
	// variable as explicitly unset.
	Bindings map[string]*float64
}

// Find returns the system with the given name.
func (m *Model) Find(name string) (*System, bool) {
	for _, s := range m.Systems {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Add appends a system, rejecting duplicate names.
func (m *Model) Add(s *System) error {
	if prev, ok := m.Find(s.Name); ok {
		return fmt.Errorf("system %q defined in %s is already defined in %s", s.Name, s.Source, prev.Source)
	}
	m.Systems = append(m.Systems, s)
	return nil
}

// Select narrows the model to the named systems, keeping model order. An
// empty selection keeps everything.
func (m *Model) Select(names ...string) (*Model, error) {
	if len(names) == 0 {
		return m, nil
	}
	out := &Model{}
	for _, name := range names {
		if _, ok := m.Find(name); !ok {
			return nil, fmt.Errorf("system %q not found", name)
		}
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	for _, s := range m.Systems {
		if want[s.Name] {
			out.Systems = append(out.Systems, s)
		}
	}
	return out, nil
}

// Names returns the system names in model order.
func (m *Model) Names() []string {
	names := make([]string, len(m.Systems))
	for i, s := range m.Systems {
		names[i] = s.Name
	}
	return names
}

// ResolvedBindings returns the set bindings of the system, dropping unset ones.
func (s *System) ResolvedBindings() map[string]float64 {
	out := make(map[string]float64, len(s.Bindings))
	for k, v := range s.Bindings {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

// BindingNames returns the names of all bindings, set or unset, sorted.
func (s *System) BindingNames() []string {
	names := make([]string, 0, len(s.Bindings))
	for k := range s.Bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
