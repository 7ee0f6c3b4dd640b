package process

import "cspkit/internal/event"

// Term is a CSP process. A process is defined by which events it is willing
// and able to communicate, and what it becomes after communicating them.
type Term interface {
	// Initials returns the set of events the process can perform immediately.
	Initials() event.Set

	// Transitions returns the outgoing transitions whose labels fall within
	// the given event set. Labels are event sets: a single transition may
	// stand for several events that all lead to the same successor.
	//
	// Callers typically pass Initials() or a subset of it. The result order
	// is deterministic for a given term.
	Transitions(within event.Set) []Transition

	// Digest returns the structural identity of the term.
	Digest() Digest

	// String renders the term using the conventional CSP operator glyphs.
	String() string
}

// Transition is a single outgoing step: the process performs any event in
// Events and then behaves like After.
type Transition struct {
	Events event.Set
	After  Term
}
