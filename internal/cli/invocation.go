package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cspkit/internal/config"
	"cspkit/internal/event"
	"cspkit/internal/parse"
)

const (
	ExitSuccess           = 0
	ExitCheckFailed       = 1
	ExitInvalidInvocation = 2
	ExitInputError        = 3
	ExitLimitExceeded     = 4
	ExitInternalError     = 5
)

type Command string

const (
	CommandTraces    Command = "traces"
	CommandRefines   Command = "refines"
	CommandLTS       Command = "lts"
	CommandSatisfies Command = "satisfies"
)

// CLIInvocation is the fully canonicalized, deterministic description of a
// run. All paths are cleaned; nothing in here depends on the environment, so
// the same invocation always means the same work.
type CLIInvocation struct {
	Command Command

	// Files holds the definition files to enumerate (traces), or exactly
	// the [spec, impl] pair (refines), or a single file (lts, satisfies).
	Files []string

	// Process names the root definition in each file, in the same order as
	// Files. An empty name selects the default root.
	Process []string

	// Events is the trace to check (satisfies only).
	Events []event.Event

	MaxDepth  int
	MaxStates int
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

const usageText = `usage: cspkit <command> [flags] <args>

commands:
  traces    <file>...          enumerate maximal finite traces of each file's root process
  refines   <spec> <impl>      check traces refinement: every trace of impl is a trace of spec
  lts       <file>             print the labelled transition system of the root process
  satisfies <file> <events>    check whether the root process can perform a trace
                               (events are comma separated, e.g. "coin,coffee,tick")

common flags:
  -process NAME      root definition to use (default: MAIN, else the last definition)
  -max-depth N       trace exploration depth bound
  -max-states N      state budget for transition-system construction
  -spec-process NAME (refines) root definition in the spec file
  -impl-process NAME (refines) root definition in the impl file
`

// ParseInvocation parses command-line arguments into a canonical
// CLIInvocation. cfg supplies the default exploration bounds.
func ParseInvocation(args []string, cfg *config.Config) (CLIInvocation, error) {
	if len(args) == 0 {
		return CLIInvocation{}, invalidInvocationf("missing command\n\n%s", usageText)
	}

	inv := CLIInvocation{
		MaxDepth:  cfg.MaxDepth,
		MaxStates: cfg.MaxStates,
	}

	switch Command(args[0]) {
	case CommandTraces:
		inv.Command = CommandTraces
	case CommandRefines:
		inv.Command = CommandRefines
	case CommandLTS:
		inv.Command = CommandLTS
	case CommandSatisfies:
		inv.Command = CommandSatisfies
	case "help", "-h", "--help":
		return CLIInvocation{}, invalidInvocationf("%s", usageText)
	default:
		return CLIInvocation{}, invalidInvocationf("unknown command %q\n\n%s", args[0], usageText)
	}

	fs := flag.NewFlagSet("cspkit "+string(inv.Command), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var processName, specProcess, implProcess string
	fs.StringVar(&processName, "process", "", "root definition name")
	fs.IntVar(&inv.MaxDepth, "max-depth", inv.MaxDepth, "trace exploration depth bound")
	fs.IntVar(&inv.MaxStates, "max-states", inv.MaxStates, "state budget")
	if inv.Command == CommandRefines {
		fs.StringVar(&specProcess, "spec-process", "", "root definition in the spec file")
		fs.StringVar(&implProcess, "impl-process", "", "root definition in the impl file")
	}

	if err := fs.Parse(args[1:]); err != nil {
		return CLIInvocation{}, invalidInvocationf("%v", err)
	}
	if inv.MaxDepth <= 0 {
		return CLIInvocation{}, invalidInvocationf("-max-depth must be positive (got %d)", inv.MaxDepth)
	}
	if inv.MaxStates <= 0 {
		return CLIInvocation{}, invalidInvocationf("-max-states must be positive (got %d)", inv.MaxStates)
	}

	rest := fs.Args()
	switch inv.Command {
	case CommandTraces:
		if len(rest) == 0 {
			return CLIInvocation{}, invalidInvocationf("traces: at least one definition file is required")
		}
		for _, p := range rest {
			inv.Files = append(inv.Files, filepath.Clean(p))
			inv.Process = append(inv.Process, processName)
		}

	case CommandRefines:
		if len(rest) != 2 {
			return CLIInvocation{}, invalidInvocationf("refines: expected <spec> <impl>, got %d arguments", len(rest))
		}
		if processName != "" {
			return CLIInvocation{}, invalidInvocationf("refines: use -spec-process and -impl-process instead of -process")
		}
		inv.Files = []string{filepath.Clean(rest[0]), filepath.Clean(rest[1])}
		inv.Process = []string{specProcess, implProcess}

	case CommandLTS:
		if len(rest) != 1 {
			return CLIInvocation{}, invalidInvocationf("lts: expected exactly one definition file, got %d arguments", len(rest))
		}
		inv.Files = []string{filepath.Clean(rest[0])}
		inv.Process = []string{processName}

	case CommandSatisfies:
		if len(rest) != 2 {
			return CLIInvocation{}, invalidInvocationf("satisfies: expected <file> <events>, got %d arguments", len(rest))
		}
		events, err := parse.ParseEvents(rest[1])
		if err != nil {
			return CLIInvocation{}, invalidInvocationf("satisfies: %v", err)
		}
		inv.Files = []string{filepath.Clean(rest[0])}
		inv.Process = []string{processName}
		inv.Events = events
	}

	for _, p := range inv.Files {
		if strings.TrimSpace(p) == "" || p == "." {
			return CLIInvocation{}, invalidInvocationf("definition file path must not be empty")
		}
	}
	return inv, nil
}

// ExitCodeFor maps an error to its semantic exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	return ExitInternalError
}
