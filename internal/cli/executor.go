package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"cspkit/internal/lts"
	"cspkit/internal/parse"
	"cspkit/internal/process"
	"cspkit/internal/refine"
	"cspkit/internal/trace"
)

// CLIResult is the outcome of executing an invocation.
type CLIResult struct {
	ExitCode int
}

// Execute runs a canonical invocation, writing human-readable results to out.
//
// Outcome mapping:
//   - a completed check that holds exits 0; one that fails exits 1
//   - unreadable or unparseable input exits 3
//   - hitting an exploration bound exits 4
func Execute(ctx context.Context, inv CLIInvocation, out io.Writer) (CLIResult, error) {
	start := time.Now()
	var res CLIResult
	var err error

	switch inv.Command {
	case CommandTraces:
		res, err = executeTraces(ctx, inv, out)
	case CommandRefines:
		res, err = executeRefines(inv, out)
	case CommandLTS:
		res, err = executeLTS(inv, out)
	case CommandSatisfies:
		res, err = executeSatisfies(inv, out)
	default:
		return CLIResult{ExitCode: ExitInternalError}, fmt.Errorf("unknown command %q", inv.Command)
	}

	slog.Debug("command finished",
		"command", string(inv.Command),
		"exit_code", res.ExitCode,
		"elapsed", time.Since(start).String())
	return res, err
}

// loadRoot parses a definition file and returns its selected root term.
func loadRoot(file, processName string) (process.Term, error) {
	parsed, err := parse.ParseFile(file)
	if err != nil {
		return nil, &InvocationError{ExitCode: ExitInputError, Message: err.Error()}
	}
	root, err := parsed.Root(processName)
	if err != nil {
		return nil, &InvocationError{ExitCode: ExitInputError, Message: fmt.Sprintf("%s: %v", file, err)}
	}
	return root, nil
}

// executeTraces enumerates maximal traces for every file. Files are explored
// concurrently but reported in invocation order.
func executeTraces(ctx context.Context, inv CLIInvocation, out io.Writer) (CLIResult, error) {
	results := make([]*trace.Maximal, len(inv.Files))

	g, _ := errgroup.WithContext(ctx)
	for i := range inv.Files {
		g.Go(func() error {
			root, err := loadRoot(inv.Files[i], inv.Process[i])
			if err != nil {
				return err
			}
			results[i] = trace.MaximalFiniteTraces(root, inv.MaxDepth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CLIResult{ExitCode: ExitCodeFor(err)}, err
	}

	total := 0
	for i, m := range results {
		if len(inv.Files) > 1 {
			fmt.Fprintf(out, "%s:\n", inv.Files[i])
		}
		for _, t := range m.Traces() {
			fmt.Fprintln(out, t.Key())
		}
		total += m.Len()
	}
	slog.Info("trace enumeration finished",
		"files", len(inv.Files),
		"traces", humanize.Comma(int64(total)))
	return CLIResult{ExitCode: ExitSuccess}, nil
}

func executeRefines(inv CLIInvocation, out io.Writer) (CLIResult, error) {
	spec, err := loadRoot(inv.Files[0], inv.Process[0])
	if err != nil {
		return CLIResult{ExitCode: ExitCodeFor(err)}, err
	}
	impl, err := loadRoot(inv.Files[1], inv.Process[1])
	if err != nil {
		return CLIResult{ExitCode: ExitCodeFor(err)}, err
	}

	result, err := refine.Refines(spec, impl, inv.MaxStates)
	if err != nil {
		if errors.Is(err, refine.ErrSearchLimit) {
			return CLIResult{ExitCode: ExitLimitExceeded},
				&InvocationError{ExitCode: ExitLimitExceeded, Message: err.Error()}
		}
		return CLIResult{ExitCode: ExitInternalError}, err
	}

	slog.Info("refinement check finished",
		"refines", result.Refines,
		"pairs_explored", humanize.Comma(int64(result.PairsExplored)))

	if !result.Refines {
		fmt.Fprintf(out, "refinement does not hold\ncounterexample: %s\n", result.CounterexampleString())
		return CLIResult{ExitCode: ExitCheckFailed}, nil
	}
	fmt.Fprintln(out, "refinement holds")
	return CLIResult{ExitCode: ExitSuccess}, nil
}

func executeLTS(inv CLIInvocation, out io.Writer) (CLIResult, error) {
	root, err := loadRoot(inv.Files[0], inv.Process[0])
	if err != nil {
		return CLIResult{ExitCode: ExitCodeFor(err)}, err
	}

	sys, err := lts.Build(root, inv.MaxStates)
	if err != nil {
		if errors.Is(err, lts.ErrStateLimit) {
			return CLIResult{ExitCode: ExitLimitExceeded},
				&InvocationError{ExitCode: ExitLimitExceeded, Message: err.Error()}
		}
		return CLIResult{ExitCode: ExitInternalError}, err
	}

	slog.Info("transition system built",
		"states", humanize.Comma(int64(sys.Len())),
		"hash", string(sys.Hash()))

	if err := sys.WriteText(out); err != nil {
		return CLIResult{ExitCode: ExitInternalError}, err
	}
	return CLIResult{ExitCode: ExitSuccess}, nil
}

func executeSatisfies(inv CLIInvocation, out io.Writer) (CLIResult, error) {
	root, err := loadRoot(inv.Files[0], inv.Process[0])
	if err != nil {
		return CLIResult{ExitCode: ExitCodeFor(err)}, err
	}

	if trace.Satisfies(root, inv.Events) {
		fmt.Fprintln(out, "trace accepted")
		return CLIResult{ExitCode: ExitSuccess}, nil
	}
	fmt.Fprintln(out, "trace rejected")
	return CLIResult{ExitCode: ExitCheckFailed}, nil
}
