package trace

import (
	"cspkit/internal/event"
	"cspkit/internal/process"
)

// DefaultMaxDepth bounds trace enumeration when the caller does not supply a
// limit.
const DefaultMaxDepth = 64

// MaximalFiniteTraces returns the maximal finite traces of a process.
//
// Traces only contain visible labels; τ steps are followed but never
// recorded. A state revisited along the current path ends the trace (the
// observable behavior from there on repeats). maxDepth bounds the number of
// visible steps per trace; at the bound the partial trace is recorded as-is.
// A maxDepth of zero means DefaultMaxDepth.
func MaximalFiniteTraces(t process.Term, maxDepth int) *Maximal {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	e := &enumerator{maxDepth: maxDepth, result: NewMaximal()}
	e.walk(t)
	return e.result
}

type enumerator struct {
	maxDepth int
	result   *Maximal
	path     []process.Digest // terms along the current trace
	current  Trace
}

func (e *enumerator) walk(t process.Term) {
	// A term already visited on this path means a cycle: the trace so far is
	// as long as it observably gets.
	digest := t.Digest()
	for _, prev := range e.path {
		if prev == digest {
			e.result.Insert(e.current)
			return
		}
	}

	// No outgoing transitions: the end of a finite trace.
	initials := t.Initials()
	if initials.IsEmpty() {
		e.result.Insert(e.current)
		return
	}

	if len(e.current) >= e.maxDepth {
		e.result.Insert(e.current)
		return
	}

	e.path = append(e.path, digest)
	for _, tr := range t.Transitions(initials) {
		label := tr.Events

		// τ is unobservable: follow it without extending the trace.
		if label.ContainsTau() {
			e.walk(tr.After)
			label = label.Subtract(event.TauSet())
		}

		if !label.IsEmpty() {
			e.current = append(e.current, label)
			e.walk(tr.After)
			e.current = e.current[:len(e.current)-1]
		}
	}
	e.path = e.path[:len(e.path)-1]
}
