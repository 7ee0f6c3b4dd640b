package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSetSortsAndDeduplicates(t *testing.T) {
	s := NewSet("b", "a", "b", "c", "a")
	want := []Event{"a", "b", "c"}
	if diff := cmp.Diff(want, s.Slice()); diff != "" {
		t.Fatalf("NewSet slice mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroValueIsEmpty(t *testing.T) {
	var s Set
	if !s.IsEmpty() {
		t.Fatalf("zero Set should be empty")
	}
	if s.Len() != 0 {
		t.Fatalf("zero Set Len = %d, want 0", s.Len())
	}
	if !s.Equal(NewSet()) {
		t.Fatalf("zero Set should equal NewSet()")
	}
}

func TestSetOperations(t *testing.T) {
	tests := []struct {
		name string
		got  Set
		want Set
	}{
		{
			name: "union disjoint",
			got:  NewSet("a").Union(NewSet("b")),
			want: NewSet("a", "b"),
		},
		{
			name: "union overlapping",
			got:  NewSet("a", "b").Union(NewSet("b", "c")),
			want: NewSet("a", "b", "c"),
		},
		{
			name: "union with empty",
			got:  NewSet("a").Union(NewSet()),
			want: NewSet("a"),
		},
		{
			name: "intersect overlapping",
			got:  NewSet("a", "b").Intersect(NewSet("b", "c")),
			want: NewSet("b"),
		},
		{
			name: "intersect disjoint",
			got:  NewSet("a").Intersect(NewSet("b")),
			want: NewSet(),
		},
		{
			name: "subtract",
			got:  NewSet("a", "b", "c").Subtract(NewSet("b")),
			want: NewSet("a", "c"),
		},
		{
			name: "subtract everything",
			got:  NewSet("a").Subtract(NewSet("a")),
			want: NewSet(),
		},
		{
			name: "visible drops tau only",
			got:  NewSet("a", Tau, Tick).Visible(),
			want: NewSet("a", Tick),
		},
		{
			name: "visible of tau alone",
			got:  TauSet().Visible(),
			want: NewSet(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Fatalf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestSetContains(t *testing.T) {
	s := NewSet("a", Tau)
	if !s.Contains("a") {
		t.Fatalf("Contains(a) = false")
	}
	if s.Contains("b") {
		t.Fatalf("Contains(b) = true")
	}
	if !s.ContainsTau() {
		t.Fatalf("ContainsTau = false")
	}
	if s.ContainsTick() {
		t.Fatalf("ContainsTick = true")
	}
	if !TickSet().ContainsTick() {
		t.Fatalf("TickSet().ContainsTick = false")
	}
}

func TestSetString(t *testing.T) {
	tests := []struct {
		set  Set
		want string
	}{
		{NewSet(), "{}"},
		{NewSet("a"), "{a}"},
		{NewSet("b", "a", Tau), "{a,b,τ}"},
		{TickSet(), "{✔}"},
	}
	for _, tt := range tests {
		if got := tt.set.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIsHidden(t *testing.T) {
	if !Tau.IsHidden() {
		t.Fatalf("τ should be hidden")
	}
	if !Tick.IsHidden() {
		t.Fatalf("✔ should be hidden from the user alphabet")
	}
	if Event("a").IsHidden() {
		t.Fatalf("a should not be hidden")
	}
}

func TestSetImmutability(t *testing.T) {
	base := NewSet("a", "b")
	_ = base.Union(NewSet("c"))
	_ = base.Subtract(NewSet("a"))
	_ = base.Intersect(NewSet("a"))
	if diff := cmp.Diff([]Event{"a", "b"}, base.Slice()); diff != "" {
		t.Fatalf("operations mutated the receiver (-want +got):\n%s", diff)
	}
}
