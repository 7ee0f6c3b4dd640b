package refine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cspkit/internal/event"
	"cspkit/internal/process"
)

func prefix(e event.Event, after process.Term) process.Term {
	return process.Prefix(event.NewSet(e), after)
}

func TestStopRefinesEverything(t *testing.T) {
	specs := []process.Term{
		process.Stop(),
		process.Skip(),
		prefix("a", prefix("b", process.Stop())),
		process.InternalChoice(prefix("a", process.Stop()), prefix("b", process.Stop())),
	}
	for _, spec := range specs {
		res, err := Refines(spec, process.Stop(), DefaultMaxPairs)
		if err != nil {
			t.Fatalf("Refines(%s, Stop): %v", spec, err)
		}
		if !res.Refines {
			t.Fatalf("Stop should refine %s", spec)
		}
	}
}

func TestRefinesIsReflexive(t *testing.T) {
	terms := []process.Term{
		process.Stop(),
		process.Skip(),
		prefix("a", process.Skip()),
		process.ExternalChoice(prefix("a", process.Stop()), prefix("b", process.Skip())),
		process.Sequential(prefix("a", process.Skip()), prefix("b", process.Stop())),
	}
	for _, term := range terms {
		res, err := Refines(term, term, DefaultMaxPairs)
		if err != nil {
			t.Fatalf("Refines(%s, %s): %v", term, term, err)
		}
		if !res.Refines {
			t.Fatalf("%s should refine itself", term)
		}
	}
}

func TestChoiceOperandRefinesChoice(t *testing.T) {
	a := prefix("a", process.Stop())
	b := prefix("b", process.Stop())
	spec := process.ExternalChoice(a, b)

	for _, impl := range []process.Term{a, b, process.InternalChoice(a, b)} {
		res, err := Refines(spec, impl, DefaultMaxPairs)
		if err != nil {
			t.Fatalf("Refines: %v", err)
		}
		if !res.Refines {
			t.Fatalf("%s should refine %s", impl, spec)
		}
	}
}

func TestRefinementFailureReportsShortestCounterexample(t *testing.T) {
	// Spec allows only a; impl performs a then the unexpected c.
	spec := prefix("a", process.Stop())
	impl := prefix("a", prefix("c", process.Stop()))

	res, err := Refines(spec, impl, DefaultMaxPairs)
	if err != nil {
		t.Fatalf("Refines: %v", err)
	}
	if res.Refines {
		t.Fatalf("refinement should not hold")
	}
	want := []event.Event{"a", "c"}
	if diff := cmp.Diff(want, res.Counterexample); diff != "" {
		t.Fatalf("counterexample mismatch (-want +got):\n%s", diff)
	}
	if got := res.CounterexampleString(); got != "⟨a,c⟩" {
		t.Fatalf("CounterexampleString() = %q", got)
	}
}

func TestRefinementSeesThroughInternalChoice(t *testing.T) {
	// The impl may internally decide to perform b, which the spec forbids.
	spec := prefix("a", process.Stop())
	impl := process.InternalChoice(
		prefix("a", process.Stop()),
		prefix("b", process.Stop()),
	)

	res, err := Refines(spec, impl, DefaultMaxPairs)
	if err != nil {
		t.Fatalf("Refines: %v", err)
	}
	if res.Refines {
		t.Fatalf("the b branch should break refinement")
	}
	want := []event.Event{"b"}
	if diff := cmp.Diff(want, res.Counterexample); diff != "" {
		t.Fatalf("counterexample mismatch (-want +got):\n%s", diff)
	}
}

func TestCounterexampleIsShortestAcrossInternalSteps(t *testing.T) {
	// The forbidden b sits behind a chain of internal steps and no visible
	// event, while a longer failure is one visible step away. The reported
	// counterexample must be the one-event trace.
	spec := prefix("a", process.Stop())
	impl := process.ExternalChoice(
		prefix("a", prefix("c", process.Stop())),
		process.ReplicatedInternalChoice([]process.Term{
			process.ReplicatedInternalChoice([]process.Term{
				prefix("b", process.Stop()),
			}),
		}),
	)

	res, err := Refines(spec, impl, DefaultMaxPairs)
	if err != nil {
		t.Fatalf("Refines: %v", err)
	}
	if res.Refines {
		t.Fatalf("refinement should not hold")
	}
	want := []event.Event{"b"}
	if diff := cmp.Diff(want, res.Counterexample); diff != "" {
		t.Fatalf("counterexample mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecInternalChoiceAllowsBothBranches(t *testing.T) {
	// τ-closure of the spec must make both branches available.
	spec := process.InternalChoice(
		prefix("a", process.Stop()),
		prefix("b", process.Stop()),
	)
	impl := process.ExternalChoice(
		prefix("a", process.Stop()),
		prefix("b", process.Stop()),
	)

	res, err := Refines(spec, impl, DefaultMaxPairs)
	if err != nil {
		t.Fatalf("Refines: %v", err)
	}
	if !res.Refines {
		t.Fatalf("impl traces are exactly the spec traces, counterexample %s", res.CounterexampleString())
	}
}

func TestTerminationIsObservable(t *testing.T) {
	// Skip can terminate; Stop cannot, so Skip does not refine Stop.
	res, err := Refines(process.Stop(), process.Skip(), DefaultMaxPairs)
	if err != nil {
		t.Fatalf("Refines: %v", err)
	}
	if res.Refines {
		t.Fatalf("Skip should not refine Stop")
	}
	want := []event.Event{event.Tick}
	if diff := cmp.Diff(want, res.Counterexample); diff != "" {
		t.Fatalf("counterexample mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchLimit(t *testing.T) {
	spec := prefix("a", prefix("b", prefix("c", process.Stop())))
	impl := spec

	_, err := Refines(spec, impl, 1)
	if err == nil {
		t.Fatalf("expected a search limit error")
	}
	if !errors.Is(err, ErrSearchLimit) {
		t.Fatalf("error %v does not wrap ErrSearchLimit", err)
	}
}
