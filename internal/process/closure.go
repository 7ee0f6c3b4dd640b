package process

import (
	"sort"

	"cspkit/internal/event"
)

// TauClosure returns every term reachable from the given terms through τ
// transitions alone, including the terms themselves.
//
// The result is deduplicated by digest and sorted by digest, so it is a
// canonical representation of the closed state set.
func TauClosure(terms []Term) []Term {
	seen := make(map[Digest]Term, len(terms))
	queue := make([]Term, 0, len(terms))
	queue = append(queue, terms...)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := seen[next.Digest()]; ok {
			continue
		}
		seen[next.Digest()] = next
		for _, tr := range next.Transitions(event.TauSet()) {
			queue = append(queue, tr.After)
		}
	}

	out := make([]Term, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Digest() < out[j].Digest() })
	return out
}
