package process

import (
	"fmt"

	"cspkit/internal/event"
)

// prefixTerm is the prefix process `{a} → P`: it performs any event in its
// initial set and then behaves like the after process.
type prefixTerm struct {
	initials event.Set
	after    Term
	digest   Digest
}

// Prefix constructs `A → P` for a non-empty set A of visible events.
//
// Panics if A is empty or mentions τ or ✔: the hidden events only ever arise
// from the operational semantics of the operators, never from construction.
func Prefix(initials event.Set, after Term) Term {
	if initials.IsEmpty() {
		panic("prefix requires at least one event")
	}
	if initials.ContainsTau() || initials.ContainsTick() {
		panic("prefix cannot mention τ or ✔")
	}
	fields := append(digestFields(initials), string(after.Digest()))
	return &prefixTerm{
		initials: initials,
		after:    after,
		digest:   computeDigest(kindPrefix, fields...),
	}
}

func (p *prefixTerm) Initials() event.Set { return p.initials }

// Operational semantics for a → P
//
// 1) ─────────────
//     a → P -a→ P
func (p *prefixTerm) Transitions(within event.Set) []Transition {
	on := within.Intersect(p.initials)
	if on.IsEmpty() {
		return nil
	}
	return []Transition{{Events: on, After: p.after}}
}

func (p *prefixTerm) Digest() Digest { return p.digest }

func (p *prefixTerm) String() string {
	return fmt.Sprintf("%s → %s", p.initials, p.after)
}
