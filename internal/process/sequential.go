package process

import (
	"fmt"

	"cspkit/internal/event"
)

// sequentialTerm is `P ; Q`: it behaves like P until P terminates (performs
// ✔), after which it behaves like Q. The ✔ itself is hidden and surfaces as
// a τ.
type sequentialTerm struct {
	p, q   Term
	digest Digest
}

// Sequential constructs `P ; Q`.
func Sequential(p, q Term) Term {
	return &sequentialTerm{
		p:      p,
		q:      q,
		digest: computeDigest(kindSequential, string(p.Digest()), string(q.Digest())),
	}
}

func (t *sequentialTerm) Initials() event.Set {
	initials := t.p.Initials()
	if initials.ContainsTick() {
		initials = initials.Subtract(event.TickSet()).Union(event.TauSet())
	}
	return initials
}

// Operational semantics for P ; Q
//
//        P -a→ P'
// 1)  ────────────── a ≠ ✔
//      P;Q -a→ P';Q
//
//     ∃ P' • P -✔→ P'
// 2) ─────────────────
//       P;Q -τ→ Q
func (t *sequentialTerm) Transitions(within event.Set) []Transition {
	// The composition never performs ✔ itself.
	within = within.Subtract(event.TickSet())

	var out []Transition
	for _, tr := range t.p.Transitions(within) {
		out = append(out, Transition{
			Events: tr.Events,
			After:  Sequential(tr.After, t.q),
		})
	}

	// If P can terminate, the composition can silently hand over to Q. We
	// only need termination to be possible; P's successor is irrelevant.
	if within.ContainsTau() && len(t.p.Transitions(event.TickSet())) > 0 {
		out = append(out, Transition{Events: event.TauSet(), After: t.q})
	}
	return out
}

func (t *sequentialTerm) Digest() Digest { return t.digest }

func (t *sequentialTerm) String() string {
	return fmt.Sprintf("%s ; %s", t.p, t.q)
}
