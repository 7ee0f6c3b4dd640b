package parse

import (
	"sort"
	"strings"

	"cspkit/internal/process"
)

// resolve checks references across definitions and builds terms in dependency
// order. It reports every unknown reference, duplicate definition, and
// recursion cycle it finds.
func resolve(defs []rawDef, filename string) (*File, []error) {
	var errs []error

	byName := make(map[string]int, len(defs))
	for i, d := range defs {
		if prev, ok := byName[d.name]; ok {
			errs = append(errs, resolvef(filename, d.line,
				"duplicate definition of %s (first defined on line %d)", d.name, defs[prev].line))
			continue
		}
		byName[d.name] = i
	}
	if len(defs) == 0 {
		errs = append(errs, resolvef(filename, 0, "file contains no definitions"))
		return nil, errs
	}

	// Reference edges, deduplicated and sorted for a stable cycle witness.
	deps := make([][]string, len(defs))
	for i, d := range defs {
		seen := map[string]bool{}
		for _, r := range collectRefs(d.body, nil) {
			if _, ok := byName[r.name]; !ok {
				if !seen["!"+r.name] {
					errs = append(errs, resolvef(filename, r.line, "reference to undefined process %s", r.name))
					seen["!"+r.name] = true
				}
				continue
			}
			if !seen[r.name] {
				deps[i] = append(deps[i], r.name)
				seen[r.name] = true
			}
		}
		sort.Strings(deps[i])
	}

	for _, cycle := range findCycles(defs, byName, deps) {
		errs = append(errs, resolvef(filename, defs[byName[cycle[0]]].line,
			"recursive definition: %s", strings.Join(cycle, " -> ")))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	// Acyclic, so iterating until every definition resolves terminates.
	resolved := make(map[string]process.Term, len(defs))
	for len(resolved) < len(defs) {
		for i, d := range defs {
			if _, done := resolved[d.name]; done {
				continue
			}
			ready := true
			for _, dep := range deps[i] {
				if _, ok := resolved[dep]; !ok {
					ready = false
					break
				}
			}
			if ready {
				resolved[d.name] = buildTerm(d.body, resolved)
			}
		}
	}

	file := &File{byName: byName}
	for _, d := range defs {
		file.Definitions = append(file.Definitions, Definition{
			Name: d.name,
			Term: resolved[d.name],
			Line: d.line,
		})
	}
	return file, nil
}

type ref struct {
	name string
	line int
}

func collectRefs(e expr, acc []ref) []ref {
	switch n := e.(type) {
	case refExpr:
		return append(acc, ref{name: n.name, line: n.line})
	case prefixExpr:
		return collectRefs(n.after, acc)
	case seqExpr:
		return collectRefs(n.rest, collectRefs(n.first, acc))
	case choiceExpr:
		for _, c := range n.children {
			acc = collectRefs(c, acc)
		}
		return acc
	default:
		return acc
	}
}

// findCycles walks the reference graph depth first in definition order and
// returns each cycle once, as the list of names along it ending where it
// started.
func findCycles(defs []rawDef, byName map[string]int, deps [][]string) [][]string {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(defs))
	var cycles [][]string
	var stack []string

	var visit func(i int)
	visit = func(i int) {
		state[i] = inProgress
		stack = append(stack, defs[i].name)
		for _, dep := range deps[i] {
			j := byName[dep]
			switch state[j] {
			case unvisited:
				visit(j)
			case inProgress:
				start := 0
				for k, name := range stack {
					if name == dep {
						start = k
						break
					}
				}
				cycle := append([]string{}, stack[start:]...)
				cycles = append(cycles, append(cycle, dep))
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
	}

	for i := range defs {
		if state[i] == unvisited {
			visit(i)
		}
	}
	return cycles
}
