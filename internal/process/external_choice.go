package process

import (
	"fmt"
	"strings"

	"cspkit/internal/event"
)

// externalChoiceTerm is `□ Ps`: it behaves like one of its children, and the
// environment gets to choose by offering a visible event.
type externalChoiceTerm struct {
	children []Term
	digest   Digest
}

// ExternalChoice constructs `P □ Q`.
func ExternalChoice(p, q Term) Term {
	return ReplicatedExternalChoice([]Term{p, q})
}

// ReplicatedExternalChoice constructs `□ Ps`. An empty collection behaves
// like Stop.
func ReplicatedExternalChoice(ps []Term) Term {
	children := make([]Term, len(ps))
	copy(children, ps)
	return &externalChoiceTerm{
		children: children,
		digest:   computeDigest(kindExternal, childDigests(children)...),
	}
}

func (t *externalChoiceTerm) Initials() event.Set {
	initials := event.Set{}
	for _, child := range t.children {
		initials = initials.Union(child.Initials())
	}
	return initials
}

// Operational semantics for □ Ps
//
//                  P -τ→ P'
//  1)  ────────────────────────────── P ∈ Ps
//       □ Ps -τ→ □ (Ps ∖ {P} ∪ {P'})
//
//         P -a→ P'
//  2)  ───────────── P ∈ Ps, a ≠ τ
//       □ Ps -a→ P'
func (t *externalChoiceTerm) Transitions(within event.Set) []Transition {
	var out []Transition
	for i, child := range t.children {
		for _, tr := range child.Transitions(within) {
			label := tr.Events

			// A τ performed by a child does not resolve the choice: the
			// choice survives with that child advanced one step.
			if label.ContainsTau() {
				advanced := make([]Term, len(t.children))
				copy(advanced, t.children)
				advanced[i] = tr.After
				out = append(out, Transition{
					Events: event.TauSet(),
					After:  ReplicatedExternalChoice(advanced),
				})
				label = label.Subtract(event.TauSet())
			}

			// Any visible event resolves the choice in favor of the child.
			if !label.IsEmpty() {
				out = append(out, Transition{Events: label, After: tr.After})
			}
		}
	}
	return out
}

func (t *externalChoiceTerm) Digest() Digest { return t.digest }

func (t *externalChoiceTerm) String() string {
	return formatChoice("□", t.children)
}

// formatChoice renders binary choices infix and wider ones as a braced list.
func formatChoice(op string, children []Term) string {
	if len(children) == 2 {
		return fmt.Sprintf("%s %s %s", children[0], op, children[1])
	}
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s {%s}", op, strings.Join(parts, ", "))
}
