package process

import "cspkit/internal/event"

// stopTerm is the process that performs no actions.
type stopTerm struct{}

// skipTerm is the process that performs ✔ and then becomes Stop. It marks the
// end of a process that can be sequentially composed with another one.
type skipTerm struct{}

var (
	stopSingleton = stopTerm{}
	skipSingleton = skipTerm{}

	stopDigest = computeDigest(kindStop)
	skipDigest = computeDigest(kindSkip)
)

// Stop returns the Stop process: it performs no actions (and, in a larger
// composition, prevents synchronized partners from performing any either).
func Stop() Term { return stopSingleton }

// Skip returns the Skip process: it performs ✔ and then behaves like Stop.
func Skip() Term { return skipSingleton }

func (stopTerm) Initials() event.Set                { return event.Set{} }
func (stopTerm) Transitions(event.Set) []Transition { return nil }
func (stopTerm) Digest() Digest                     { return stopDigest }
func (stopTerm) String() string                     { return "Stop" }

func (skipTerm) Initials() event.Set { return event.TickSet() }

// Operational semantics for Skip
//
// 1) ────────────────
//     Skip -✔→ Stop
func (skipTerm) Transitions(within event.Set) []Transition {
	if !within.ContainsTick() {
		return nil
	}
	return []Transition{{Events: event.TickSet(), After: Stop()}}
}

func (skipTerm) Digest() Digest { return skipDigest }
func (skipTerm) String() string { return "Skip" }
