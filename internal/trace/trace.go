// Package trace defines canonical CSP traces and prefix-maximal trace sets.
//
// A trace records one transition label (an event set) per step. Traces never
// contain τ: internal steps are unobservable. Trace sets are kept maximal so
// that no member is a proper prefix of another member; this is the canonical
// finite description of a process's observable behavior.
package trace

import (
	"sort"
	"strings"

	"cspkit/internal/event"
)

// Trace is a finite sequence of transition labels.
type Trace []event.Set

// Key renders the trace canonically, e.g. "⟨{a},{b,c}⟩".
//
// Keys are total identifiers: two traces are equal iff their keys are equal.
func (t Trace) Key() string {
	var b strings.Builder
	b.WriteString("⟨")
	for i, s := range t {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s.String())
	}
	b.WriteString("⟩")
	return b.String()
}

// Clone returns an independent copy of the trace.
func (t Trace) Clone() Trace {
	out := make(Trace, len(t))
	copy(out, t)
	return out
}

// HasPrefix reports whether prefix is a leading segment of t.
func (t Trace) HasPrefix(prefix Trace) bool {
	if len(prefix) > len(t) {
		return false
	}
	for i, s := range prefix {
		if !t[i].Equal(s) {
			return false
		}
	}
	return true
}

// Maximal is a prefix-maximal set of traces: inserting a trace drops it if it
// is a prefix of an existing member and evicts members that are prefixes of
// it. The set always contains at least the empty trace.
type Maximal struct {
	traces map[string]Trace
}

// NewMaximal returns a Maximal set containing only the empty trace.
func NewMaximal() *Maximal {
	empty := Trace{}
	return &Maximal{traces: map[string]Trace{empty.Key(): empty}}
}

// Len returns the number of traces in the set.
func (m *Maximal) Len() int { return len(m.traces) }

// Insert adds a trace, maintaining maximality.
func (m *Maximal) Insert(t Trace) {
	// If the new trace is a prefix of any existing trace, do nothing.
	for _, existing := range m.traces {
		if existing.HasPrefix(t) {
			return
		}
	}

	// Remove any existing traces that are a prefix of the new one.
	for n := len(t) - 1; n >= 0; n-- {
		delete(m.traces, t[:n].Key())
	}

	t = t.Clone()
	m.traces[t.Key()] = t
}

// Add inserts every trace of other into m and returns m.
func (m *Maximal) Add(other *Maximal) *Maximal {
	for _, t := range other.traces {
		m.Insert(t)
	}
	return m
}

// Map returns a new set built by inserting fn(t) for every member t.
func (m *Maximal) Map(fn func(Trace) Trace) *Maximal {
	out := NewMaximal()
	for _, t := range m.traces {
		out.Insert(fn(t.Clone()))
	}
	return out
}

// Contains reports whether the exact trace is a member.
func (m *Maximal) Contains(t Trace) bool {
	_, ok := m.traces[t.Key()]
	return ok
}

// Traces returns the members sorted by canonical key.
func (m *Maximal) Traces() []Trace {
	out := make([]Trace, 0, len(m.traces))
	for _, t := range m.traces {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Keys returns the canonical keys of the members in sorted order.
func (m *Maximal) Keys() []string {
	keys := make([]string, 0, len(m.traces))
	for k := range m.traces {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both sets contain exactly the same traces.
func (m *Maximal) Equal(other *Maximal) bool {
	if len(m.traces) != len(other.traces) {
		return false
	}
	for k := range m.traces {
		if _, ok := other.traces[k]; !ok {
			return false
		}
	}
	return true
}

// String renders the sorted trace keys, one per line.
func (m *Maximal) String() string {
	return strings.Join(m.Keys(), "\n")
}
