// Package refine implements traces refinement between CSP processes.
//
// In the traces model the behavior of a process state is the set of visible
// events it can perform, and one behavior refines another when it is a
// subset. A process Impl refines a specification Spec when every trace of
// Impl is also a trace of Spec.
//
// The checker normalizes the specification on the fly: the spec side of the
// search is a τ-closed set of spec states (subset construction), while the
// impl side walks single states and follows its τ steps explicitly. The
// search is stratified by trace length (τ steps stay within a stratum) with a
// deterministic expansion order, so a failed check always reports the same,
// shortest counterexample.
package refine

import (
	"errors"
	"fmt"
	"strings"

	"cspkit/internal/event"
	"cspkit/internal/process"
)

// DefaultMaxPairs bounds the search when the caller does not supply a limit.
const DefaultMaxPairs = 10000

// ErrSearchLimit means the refinement search exceeded its pair budget.
var ErrSearchLimit = errors.New("refinement search limit exceeded")

// Result is the outcome of a refinement check.
type Result struct {
	Refines bool

	// Counterexample is the shortest impl trace the spec cannot perform,
	// ending with the offending event. Empty when Refines is true.
	Counterexample []event.Event

	// PairsExplored counts distinct (impl state, spec state-set) pairs.
	PairsExplored int
}

// CounterexampleString renders the counterexample as "⟨a,b,c⟩".
func (r *Result) CounterexampleString() string {
	parts := make([]string, len(r.Counterexample))
	for i, e := range r.Counterexample {
		parts[i] = string(e)
	}
	return "⟨" + strings.Join(parts, ",") + "⟩"
}

type searchNode struct {
	impl process.Term
	spec []process.Term // τ-closed, canonical order
	path []event.Event
}

// Refines checks whether impl traces-refines spec.
//
// maxPairs bounds the number of distinct search pairs; zero means
// DefaultMaxPairs. Exceeding the budget returns an error wrapping
// ErrSearchLimit.
func Refines(spec, impl process.Term, maxPairs int) (*Result, error) {
	if maxPairs <= 0 {
		maxPairs = DefaultMaxPairs
	}

	start := searchNode{
		impl: impl,
		spec: process.TauClosure([]process.Term{spec}),
	}

	visited := make(map[string]struct{})

	// Pairs are explored one trace length at a time. Every pair reachable in
	// k visible steps is examined before any pair reachable in k+1, which is
	// what makes a reported counterexample the shortest one.
	current := []searchNode{start}
	var next []searchNode

	for len(current) > 0 {
		stratum := current
		for len(stratum) > 0 {
			node := stratum[0]
			stratum = stratum[1:]

			key := pairKey(node.impl, node.spec)
			if _, seen := visited[key]; seen {
				continue
			}
			if len(visited) >= maxPairs {
				return nil, fmt.Errorf("%w: more than %d pairs", ErrSearchLimit, maxPairs)
			}
			visited[key] = struct{}{}

			// The spec must allow every visible event the impl state offers.
			allowed := event.Set{}
			for _, s := range node.spec {
				allowed = allowed.Union(s.Initials().Visible())
			}
			implVisible := node.impl.Initials().Visible()
			for _, e := range implVisible.Slice() {
				if !allowed.Contains(e) {
					counterexample := append(append([]event.Event{}, node.path...), e)
					return &Result{
						Refines:        false,
						Counterexample: counterexample,
						PairsExplored:  len(visited),
					}, nil
				}
			}

			// Impl τ steps advance the impl alone. They do not lengthen the
			// trace, so they stay in the current stratum.
			for _, tr := range node.impl.Transitions(event.TauSet()) {
				stratum = append(stratum, searchNode{impl: tr.After, spec: node.spec, path: node.path})
			}

			// Visible steps advance both sides and belong to the next stratum.
			for _, e := range implVisible.Slice() {
				on := event.NewSet(e)
				specAfter := specSuccessors(node.spec, on)
				path := append(append([]event.Event{}, node.path...), e)
				for _, tr := range node.impl.Transitions(on) {
					next = append(next, searchNode{impl: tr.After, spec: specAfter, path: path})
				}
			}
		}
		current, next = next, nil
	}

	return &Result{Refines: true, PairsExplored: len(visited)}, nil
}

// specSuccessors advances every spec state that can perform the event and
// τ-closes the result.
func specSuccessors(spec []process.Term, on event.Set) []process.Term {
	var next []process.Term
	for _, s := range spec {
		for _, tr := range s.Transitions(on) {
			next = append(next, tr.After)
		}
	}
	return process.TauClosure(next)
}

func pairKey(impl process.Term, spec []process.Term) string {
	var b strings.Builder
	b.WriteString(string(impl.Digest()))
	for _, s := range spec {
		b.WriteByte('|')
		b.WriteString(string(s.Digest()))
	}
	return b.String()
}
