// Package process defines the CSP process terms and their operational
// semantics.
//
// It is intentionally split into:
//   - Immutable term construction (Stop, Skip, Prefix, choices, Sequential)
//   - Derived semantics (Initials, Transitions) computed on demand
//
// Terms are immutable once constructed and carry a structural Digest: a
// content-addressed identity that is invariant to pointer identity, making
// terms usable as deterministic map keys and enabling cycle detection during
// state-space exploration.
package process
