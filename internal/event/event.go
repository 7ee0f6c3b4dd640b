// Package event defines CSP events and canonical event sets.
//
// Two events are built in and hidden from user alphabets:
//   - Tau (τ): the internal event that expresses nondeterminism.
//   - Tick (✔): the termination event emitted by Skip and hidden by
//     sequential composition.
//
// A Set is immutable and canonically ordered, so its string form and its
// iteration order are stable across runs and insertion orders.
package event

import (
	"sort"
	"strings"
)

// Event is a single named event. Visible events use ordinary identifiers;
// Tau and Tick are reserved names that user input must never mention.
type Event string

const (
	// Tau is the hidden internal event (τ).
	Tau Event = "τ"
	// Tick is the termination event (✔).
	Tick Event = "✔"
)

// IsHidden reports whether the event is one of the built-in hidden events.
func (e Event) IsHidden() bool { return e == Tau || e == Tick }

// Set is an immutable set of events in canonical order.
//
// The zero value is the empty set. All operations return new sets; a Set is
// safe to share and to use as a basis for deterministic output.
type Set struct {
	events []Event // sorted ascending, no duplicates
}

// NewSet builds a Set from the given events, deduplicating and ordering them.
func NewSet(events ...Event) Set {
	if len(events) == 0 {
		return Set{}
	}
	out := make([]Event, 0, len(events))
	seen := make(map[Event]struct{}, len(events))
	for _, e := range events {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return Set{events: out}
}

// TauSet returns the singleton {τ}.
func TauSet() Set { return NewSet(Tau) }

// TickSet returns the singleton {✔}.
func TickSet() Set { return NewSet(Tick) }

// Contains reports whether e is in the set.
func (s Set) Contains(e Event) bool {
	i := sort.Search(len(s.events), func(i int) bool { return s.events[i] >= e })
	return i < len(s.events) && s.events[i] == e
}

// ContainsTau reports whether τ is in the set.
func (s Set) ContainsTau() bool { return s.Contains(Tau) }

// ContainsTick reports whether ✔ is in the set.
func (s Set) ContainsTick() bool { return s.Contains(Tick) }

// IsEmpty reports whether the set has no events.
func (s Set) IsEmpty() bool { return len(s.events) == 0 }

// Len returns the number of events in the set.
func (s Set) Len() int { return len(s.events) }

// Slice returns the events in canonical order. The caller owns the result.
func (s Set) Slice() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Union returns the set of events in either s or other.
func (s Set) Union(other Set) Set {
	if other.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return other
	}
	merged := make([]Event, 0, len(s.events)+len(other.events))
	merged = append(merged, s.events...)
	merged = append(merged, other.events...)
	return NewSet(merged...)
}

// Intersect returns the set of events in both s and other.
func (s Set) Intersect(other Set) Set {
	out := make([]Event, 0, min(len(s.events), len(other.events)))
	for _, e := range s.events {
		if other.Contains(e) {
			out = append(out, e)
		}
	}
	return Set{events: out}
}

// Subtract returns the set of events in s but not in other.
func (s Set) Subtract(other Set) Set {
	if other.IsEmpty() {
		return s
	}
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if !other.Contains(e) {
			out = append(out, e)
		}
	}
	return Set{events: out}
}

// Visible returns the set without τ. Tick stays: it is observable in traces.
func (s Set) Visible() Set {
	return s.Subtract(TauSet())
}

// Equal reports whether the two sets contain exactly the same events.
func (s Set) Equal(other Set) bool {
	if len(s.events) != len(other.events) {
		return false
	}
	for i, e := range s.events {
		if other.events[i] != e {
			return false
		}
	}
	return true
}

// String renders the set canonically, e.g. "{a,b,τ}".
func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.events {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(e))
	}
	b.WriteByte('}')
	return b.String()
}
