// Package lts expands a process term into an explicit labeled transition
// system with a canonical state order and a stable content hash.
//
// The expansion is exhaustive (it includes τ and ✔ edges) and bounded by a
// state budget. States are canonically ordered by term digest, so the system
// layout and its hash are invariant to discovery order.
package lts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"cspkit/internal/event"
	"cspkit/internal/process"
)

// DefaultMaxStates bounds expansion when the caller does not supply a limit.
const DefaultMaxStates = 10000

// Hash is the deterministic identity of a System.
//
// It is computed solely from state digests and edge structure in canonical
// order, so it is invariant to the order in which states were discovered.
type Hash string

// String returns the string form of the hash.
func (h Hash) String() string { return string(h) }

// Edge is a single transition from one state to another on one event.
type Edge struct {
	Event event.Event
	To    int // canonical state index
}

// System is an immutable, fully expanded labeled transition system.
//
// It is safe for concurrent read access.
type System struct {
	terms []process.Term // canonical order (by digest)
	root  int
	edges [][]Edge // by canonical index, sorted by (event, to)
	hash  Hash
}

// Build expands the reachable state space of root.
//
// maxStates bounds the number of distinct states; zero means
// DefaultMaxStates. Exceeding the budget returns an error wrapping
// ErrStateLimit.
func Build(root process.Term, maxStates int) (*System, error) {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	type rawEdge struct {
		ev event.Event
		to process.Digest
	}

	discovered := map[process.Digest]process.Term{root.Digest(): root}
	outgoing := make(map[process.Digest][]rawEdge)
	queue := []process.Term{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		digest := current.Digest()
		if _, done := outgoing[digest]; done {
			continue
		}
		outgoing[digest] = nil

		for _, e := range current.Initials().Slice() {
			for _, tr := range current.Transitions(event.NewSet(e)) {
				after := tr.After
				afterDigest := after.Digest()
				outgoing[digest] = append(outgoing[digest], rawEdge{ev: e, to: afterDigest})
				if _, known := discovered[afterDigest]; !known {
					if len(discovered) >= maxStates {
						return nil, limitf("more than %d states", maxStates)
					}
					discovered[afterDigest] = after
					queue = append(queue, after)
				}
			}
		}
	}

	// Canonicalize states: sort by digest so the layout is independent of
	// BFS discovery order.
	terms := make([]process.Term, 0, len(discovered))
	for _, t := range discovered {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Digest() < terms[j].Digest() })

	index := make(map[process.Digest]int, len(terms))
	for i, t := range terms {
		index[t.Digest()] = i
	}

	edges := make([][]Edge, len(terms))
	for digest, raw := range outgoing {
		from := index[digest]
		seen := make(map[Edge]struct{}, len(raw))
		for _, re := range raw {
			e := Edge{Event: re.ev, To: index[re.to]}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges[from] = append(edges[from], e)
		}
		sort.Slice(edges[from], func(i, j int) bool {
			a, b := edges[from][i], edges[from][j]
			if a.Event != b.Event {
				return a.Event < b.Event
			}
			return a.To < b.To
		})
	}

	s := &System{
		terms: terms,
		root:  index[root.Digest()],
		edges: edges,
	}
	s.hash = s.computeHash()
	return s, nil
}

// Len returns the number of states.
func (s *System) Len() int { return len(s.terms) }

// Root returns the canonical index of the initial state.
func (s *System) Root() int { return s.root }

// Hash returns the stable identity of the system.
func (s *System) Hash() Hash { return s.hash }

// Term returns the process term behind a state.
func (s *System) Term(i int) process.Term { return s.terms[i] }

// Edges returns the outgoing edges of a state in canonical order.
func (s *System) Edges(i int) []Edge {
	out := make([]Edge, len(s.edges[i]))
	copy(out, s.edges[i])
	return out
}

func (s *System) computeHash() Hash {
	h := sha256.New()

	writeField := func(data []byte) {
		length := uint64(len(data))
		lengthBytes := []byte{
			byte(length >> 56),
			byte(length >> 48),
			byte(length >> 40),
			byte(length >> 32),
			byte(length >> 24),
			byte(length >> 16),
			byte(length >> 8),
			byte(length),
		}
		h.Write(lengthBytes)
		h.Write(data)
	}

	writeField([]byte(fmt.Sprintf("%d:%d", len(s.terms), s.root)))
	for _, t := range s.terms {
		writeField([]byte(t.Digest()))
	}
	for from, out := range s.edges {
		for _, e := range out {
			writeField([]byte(fmt.Sprintf("%d:%s:%d", from, e.Event, e.To)))
		}
	}

	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// WriteText writes a deterministic human-readable dump of the system.
func (s *System) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "states: %d\nroot: #%d\nhash: %s\n", len(s.terms), s.root, s.hash); err != nil {
		return err
	}
	for i, t := range s.terms {
		if _, err := fmt.Fprintf(w, "#%d %s\n", i, t); err != nil {
			return err
		}
		for _, e := range s.edges[i] {
			if _, err := fmt.Fprintf(w, "  -%s-> #%d\n", e.Event, e.To); err != nil {
				return err
			}
		}
	}
	return nil
}
