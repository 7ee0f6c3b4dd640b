package process

import "cspkit/internal/event"

// internalChoiceTerm is `⊓ Ps`: it behaves like one of its children, and the
// environment has no control over which one is chosen.
type internalChoiceTerm struct {
	children []Term
	digest   Digest
}

// InternalChoice constructs `P ⊓ Q`.
func InternalChoice(p, q Term) Term {
	return ReplicatedInternalChoice([]Term{p, q})
}

// ReplicatedInternalChoice constructs `⊓ Ps` over a non-empty collection.
//
// Panics if ps is empty: an internal choice over no processes has no meaning.
func ReplicatedInternalChoice(ps []Term) Term {
	if len(ps) == 0 {
		panic("cannot perform internal choice over no processes")
	}
	children := make([]Term, len(ps))
	copy(children, ps)
	return &internalChoiceTerm{
		children: children,
		digest:   computeDigest(kindInternal, childDigests(children)...),
	}
}

// Operational semantics for ⊓ Ps
//
// 1) ──────────── P ∈ Ps
//     ⊓ Ps -τ→ P
func (t *internalChoiceTerm) Initials() event.Set { return event.TauSet() }

func (t *internalChoiceTerm) Transitions(within event.Set) []Transition {
	if !within.ContainsTau() {
		return nil
	}
	out := make([]Transition, len(t.children))
	for i, child := range t.children {
		out[i] = Transition{Events: event.TauSet(), After: child}
	}
	return out
}

func (t *internalChoiceTerm) Digest() Digest { return t.digest }

func (t *internalChoiceTerm) String() string {
	return formatChoice("⊓", t.children)
}
