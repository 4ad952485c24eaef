package tree

import (
	"fmt"
	"time"

	"github.com/Takheer/mstroy-test/pkg/observability"
)

// maxReported caps how many offending ids an error message lists.
const maxReported = 8

// rebuild runs a full build over records and reports it to the store hooks.
// The store is left untouched; callers swap the returned index in.
func (s *Store) rebuild(records []Record) (*index, error) {
	start := time.Now()
	idx, err := assemble(records)
	if err == nil {
		idx.descendants = computeDescendants(idx, s.opts.Order)
		idx.ancestors = computeAncestors(idx)
	}
	elapsed := time.Since(start)

	observability.Store().OnBuild(len(records), elapsed, err)
	if err != nil {
		s.log.Debug("tree build failed", "records", len(records), "err", err)
		return nil, err
	}
	s.log.Debug("tree built",
		"records", len(records),
		"roots", len(idx.roots),
		"order", s.opts.Order,
		"duration", elapsed)
	return idx, nil
}

// assemble makes one pass over records, in input order, creating a node per
// distinct identifier and linking every node either into the root list or
// into its parent's child list. Parents referenced before their own record
// get a placeholder node that the record later fills in.
//
// After the pass, any placeholder still missing its record means a parent
// chain that never reaches a root. That is a structural failure like a cycle,
// so the error wraps both [ErrCyclicStructure] and [ErrUnknownParent]. A
// reachability count from the roots then detects cycles: nodes on a cycle
// never hang below a root, so fewer nodes are reachable than exist.
func assemble(records []Record) (*index, error) {
	idx := &index{
		nodes:    make(map[ID]*node, len(records)),
		children: make(map[ID][]Record, len(records)),
	}

	for _, rec := range records {
		if rec.ID.IsZero() {
			return nil, fmt.Errorf("%w: record with empty id", ErrInvalidID)
		}
		n := idx.ensure(rec.ID)
		if n.present {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateIdentifier, rec.ID)
		}
		n.rec = rec
		n.present = true

		if rec.IsRoot() {
			idx.roots = append(idx.roots, rec.ID)
			continue
		}
		p := idx.ensure(rec.Parent)
		p.children = append(p.children, rec.ID)
		idx.children[rec.Parent] = append(idx.children[rec.Parent], rec)
	}

	var dangling []ID
	for _, rec := range records {
		if p := idx.nodes[rec.Parent]; !rec.IsRoot() && !p.present {
			dangling = append(dangling, rec.Parent)
		}
	}
	if len(dangling) > 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrCyclicStructure, ErrUnknownParent, formatIDs(dedupe(dangling)))
	}

	if reached := countReachable(idx); reached < len(idx.nodes) {
		return nil, fmt.Errorf("%w: %d of %d records unreachable from a root: %s",
			ErrCyclicStructure, len(idx.nodes)-reached, len(idx.nodes), formatIDs(unreachable(idx)))
	}
	return idx, nil
}

// ensure returns the node for id, creating a placeholder on first reference.
func (idx *index) ensure(id ID) *node {
	n, ok := idx.nodes[id]
	if !ok {
		n = &node{}
		idx.nodes[id] = n
	}
	return n
}

// countReachable counts the nodes hanging below the root list. The walk is
// iterative so deep chains cannot exhaust the goroutine stack.
func countReachable(idx *index) int {
	count := 0
	stack := append([]ID(nil), idx.roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, idx.nodes[id].children...)
	}
	return count
}

// unreachable lists the nodes not below any root, in no particular order.
// Only used to build error messages.
func unreachable(idx *index) []ID {
	seen := make(map[ID]bool, len(idx.nodes))
	stack := append([]ID(nil), idx.roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen[id] = true
		stack = append(stack, idx.nodes[id].children...)
	}
	var out []ID
	for id := range idx.nodes {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func dedupe(ids []ID) []ID {
	seen := make(map[ID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func formatIDs(ids []ID) string {
	if len(ids) > maxReported {
		return fmt.Sprintf("%v and %d more", ids[:maxReported], len(ids)-maxReported)
	}
	return fmt.Sprintf("%v", ids)
}
