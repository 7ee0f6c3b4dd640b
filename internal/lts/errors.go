package lts

import (
	"errors"
	"fmt"
)

// ErrStateLimit means expansion stopped because the reachable state space
// exceeded the configured budget.
var ErrStateLimit = errors.New("state limit exceeded")

// BuildError wraps deterministic expansion failures.
type BuildError struct {
	Kind error
	Msg  string
}

func (e *BuildError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *BuildError) Unwrap() error { return e.Kind }

func limitf(format string, args ...any) error {
	return &BuildError{Kind: ErrStateLimit, Msg: fmt.Sprintf(format, args...)}
}
