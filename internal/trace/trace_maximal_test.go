package trace

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cspkit/internal/event"
	"cspkit/internal/process"
)

func set(events ...event.Event) event.Set { return event.NewSet(events...) }

func TestNewMaximalContainsEmptyTrace(t *testing.T) {
	m := NewMaximal()
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	if !m.Contains(Trace{}) {
		t.Fatalf("missing the empty trace")
	}
}

func TestInsertKeepsOnlyMaximalTraces(t *testing.T) {
	m := NewMaximal()

	ab := Trace{set("a"), set("b")}
	m.Insert(ab)
	if m.Len() != 1 || !m.Contains(ab) {
		t.Fatalf("after inserting ⟨{a},{b}⟩: %s", m)
	}

	// A prefix of an existing trace is dropped.
	m.Insert(Trace{set("a")})
	if m.Len() != 1 {
		t.Fatalf("prefix was retained: %s", m)
	}

	// An extension evicts the existing prefix.
	abc := Trace{set("a"), set("b"), set("c")}
	m.Insert(abc)
	if m.Len() != 1 || !m.Contains(abc) {
		t.Fatalf("extension did not evict its prefix: %s", m)
	}

	// An unrelated trace coexists.
	d := Trace{set("d")}
	m.Insert(d)
	if m.Len() != 2 || !m.Contains(d) || !m.Contains(abc) {
		t.Fatalf("unrelated traces should coexist: %s", m)
	}
}

func TestTracesAreSorted(t *testing.T) {
	m := NewMaximal()
	m.Insert(Trace{set("b")})
	m.Insert(Trace{set("a")})
	m.Insert(Trace{set("c")})

	want := []string{"⟨{a}⟩", "⟨{b}⟩", "⟨{c}⟩"}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Fatalf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMaximalFiniteTraces(t *testing.T) {
	a := set("a")
	b := set("b")

	tests := []struct {
		name string
		term process.Term
		want []string
	}{
		{
			name: "stop",
			term: process.Stop(),
			want: []string{"⟨⟩"},
		},
		{
			name: "skip terminates visibly",
			term: process.Skip(),
			want: []string{"⟨{✔}⟩"},
		},
		{
			name: "prefix chain",
			term: process.Prefix(a, process.Prefix(b, process.Stop())),
			want: []string{"⟨{a},{b}⟩"},
		},
		{
			name: "internal choice branches without a visible step",
			term: process.InternalChoice(
				process.Prefix(a, process.Stop()),
				process.Prefix(b, process.Skip()),
			),
			want: []string{"⟨{a}⟩", "⟨{b},{✔}⟩"},
		},
		{
			name: "external choice branches",
			term: process.ExternalChoice(
				process.Prefix(a, process.Stop()),
				process.Prefix(b, process.Stop()),
			),
			want: []string{"⟨{a}⟩", "⟨{b}⟩"},
		},
		{
			name: "sequential hides the handoff",
			term: process.Sequential(
				process.Prefix(a, process.Skip()),
				process.Prefix(b, process.Stop()),
			),
			want: []string{"⟨{a},{b}⟩"},
		},
		{
			name: "multi-event prefix keeps its label as a set",
			term: process.Prefix(set("a", "b"), process.Stop()),
			want: []string{"⟨{a,b}⟩"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaximalFiniteTraces(tt.term, DefaultMaxDepth)
			if diff := cmp.Diff(tt.want, got.Keys()); diff != "" {
				t.Fatalf("traces mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMaximalFiniteTracesDepthBound(t *testing.T) {
	// A chain of five events explored to depth two yields the truncated
	// prefix, not an error.
	term := process.Stop()
	for _, e := range []event.Event{"e", "d", "c", "b", "a"} {
		term = process.Prefix(event.NewSet(e), term)
	}

	got := MaximalFiniteTraces(term, 2)
	want := []string{"⟨{a},{b}⟩"}
	if diff := cmp.Diff(want, got.Keys()); diff != "" {
		t.Fatalf("truncated traces mismatch (-want +got):\n%s", diff)
	}
}

func TestSatisfies(t *testing.T) {
	// (a -> Skip ; b -> Stop) ⊓ (c -> Stop)
	term := process.InternalChoice(
		process.Sequential(
			process.Prefix(set("a"), process.Skip()),
			process.Prefix(set("b"), process.Stop()),
		),
		process.Prefix(set("c"), process.Stop()),
	)

	tests := []struct {
		name   string
		events []event.Event
		want   bool
	}{
		{"empty trace", nil, true},
		{"left branch", []event.Event{"a", "b"}, true},
		{"left branch prefix", []event.Event{"a"}, true},
		{"right branch", []event.Event{"c"}, true},
		{"wrong order", []event.Event{"b", "a"}, false},
		{"unknown event", []event.Event{"x"}, false},
		{"past the end", []event.Event{"a", "b", "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Satisfies(term, tt.events); got != tt.want {
				t.Fatalf("Satisfies(%v) = %v, want %v", tt.events, got, tt.want)
			}
		})
	}
}

func TestSatisfiesObservesTermination(t *testing.T) {
	term := process.Prefix(set("a"), process.Skip())
	if !Satisfies(term, []event.Event{"a", event.Tick}) {
		t.Fatalf("termination after a should be observable")
	}
	if Satisfies(term, []event.Event{event.Tick}) {
		t.Fatalf("✔ before a should be impossible")
	}
}
