package trace

import (
	"cspkit/internal/event"
	"cspkit/internal/process"
)

// Satisfies reports whether the process can perform the given sequence of
// events, allowing any number of internal τ steps in between.
//
// Events are single events (not labels); ✔ may appear to assert termination.
func Satisfies(t process.Term, events []event.Event) bool {
	states := process.TauClosure([]process.Term{t})
	for _, e := range events {
		var next []process.Term
		on := event.NewSet(e)
		for _, state := range states {
			for _, tr := range state.Transitions(on) {
				next = append(next, tr.After)
			}
		}
		if len(next) == 0 {
			return false
		}
		states = process.TauClosure(next)
	}
	return true
}
