package tree

import (
	"fmt"
	"slices"
	"time"

	"github.com/Takheer/mstroy-test/pkg/observability"
	"github.com/charmbracelet/log"
)

// Mutation names passed to the store hooks.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
)

// Add inserts a new record without rebuilding: the record is appended to
// its parent's child list and to the descendant list of every ancestor, and
// its ancestor chain is the parent's chain with the parent prepended. Cost
// is proportional to the record's depth.
//
// Add returns an error wrapping [ErrInvalidID] for a zero ID,
// [ErrDuplicateIdentifier] if the ID exists, or [ErrUnknownParent] if the
// parent does not. On error the store is unchanged.
func (s *Store) Add(rec Record) error {
	s.init()
	start := time.Now()
	err := s.add(rec)
	s.report(OpAdd, rec.ID, 1, start, err)
	return err
}

func (s *Store) add(rec Record) error {
	if rec.ID.IsZero() {
		return fmt.Errorf("%w: record with empty id", ErrInvalidID)
	}
	if s.Has(rec.ID) {
		return fmt.Errorf("%w: %v", ErrDuplicateIdentifier, rec.ID)
	}
	if !rec.IsRoot() && !s.Has(rec.Parent) {
		return fmt.Errorf("%w: %v (parent of %v)", ErrUnknownParent, rec.Parent, rec.ID)
	}

	idx := s.idx
	s.records = append(s.records, rec)
	idx.nodes[rec.ID] = &node{rec: rec, present: true}
	if rec.IsRoot() {
		idx.roots = append(idx.roots, rec.ID)
		return nil
	}

	p := idx.nodes[rec.Parent]
	p.children = append(p.children, rec.ID)
	idx.children[rec.Parent] = append(idx.children[rec.Parent], rec)

	parentChain := idx.ancestors[rec.Parent]
	chain := make([]Record, 0, len(parentChain)+1)
	chain = append(chain, p.rec)
	chain = append(chain, parentChain...)
	idx.ancestors[rec.ID] = chain

	for _, a := range chain {
		idx.descendants[a.ID] = append(idx.descendants[a.ID], rec)
	}
	return nil
}

// Remove deletes the record with the given id together with all of its
// descendants. Removing an unknown id is a no-op, not an error.
//
// The record list is filtered in a single pass, so the cost is O(n) for the
// list plus, for each ancestor of id, a pass over that ancestor's
// descendant list: O(n + depth·subtree) overall.
func (s *Store) Remove(id ID) {
	s.init()
	start := time.Now()
	n := s.remove(id)
	s.report(OpRemove, id, n, start, nil)
}

func (s *Store) remove(id ID) int {
	idx := s.idx
	target, ok := idx.nodes[id]
	if !ok {
		return 0
	}

	victims := make(map[ID]bool, len(idx.descendants[id])+1)
	victims[id] = true
	for _, d := range idx.descendants[id] {
		victims[d.ID] = true
	}
	isVictim := func(r Record) bool { return victims[r.ID] }

	s.records = slices.DeleteFunc(s.records, isVictim)

	if target.rec.IsRoot() {
		idx.roots = slices.DeleteFunc(idx.roots, func(r ID) bool { return r == id })
	} else {
		parent := target.rec.Parent
		p := idx.nodes[parent]
		p.children = slices.DeleteFunc(p.children, func(c ID) bool { return c == id })
		setOrDelete(idx.children, parent, slices.DeleteFunc(idx.children[parent], isVictim))
		for _, a := range idx.ancestors[id] {
			setOrDelete(idx.descendants, a.ID, slices.DeleteFunc(idx.descendants[a.ID], isVictim))
		}
	}

	for v := range victims {
		delete(idx.nodes, v)
		delete(idx.children, v)
		delete(idx.descendants, v)
		delete(idx.ancestors, v)
	}
	return len(victims)
}

// Update replaces the record with the same ID.
//
// When the parent changes, a whole subtree may move, so the indices are
// rebuilt from the record list and swapped in once the build succeeds. When
// the parent is unchanged the structure is identical and the new record is
// patched into every list that holds the old one instead.
//
// Update returns an error wrapping [ErrInvalidID] for a zero ID,
// [ErrUnknownIdentifier] if no record has the ID, [ErrUnknownParent] if the
// new parent does not exist, or [ErrCyclicStructure] if the new parent is
// the record itself or one of its descendants. On error the store is
// unchanged.
func (s *Store) Update(rec Record) error {
	s.init()
	start := time.Now()
	affected, err := s.update(rec)
	s.report(OpUpdate, rec.ID, affected, start, err)
	return err
}

func (s *Store) update(rec Record) (int, error) {
	if rec.ID.IsZero() {
		return 0, fmt.Errorf("%w: record with empty id", ErrInvalidID)
	}
	cur, ok := s.idx.nodes[rec.ID]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownIdentifier, rec.ID)
	}
	if !rec.IsRoot() {
		if !s.Has(rec.Parent) {
			return 0, fmt.Errorf("%w: %v (parent of %v)", ErrUnknownParent, rec.Parent, rec.ID)
		}
		if rec.Parent == rec.ID || s.isAncestor(rec.ID, rec.Parent) {
			return 0, fmt.Errorf("%w: %v cannot move under %v", ErrCyclicStructure, rec.ID, rec.Parent)
		}
	}

	pos := slices.IndexFunc(s.records, func(r Record) bool { return r.ID == rec.ID })
	if rec.Parent == cur.rec.Parent {
		s.patch(pos, rec)
		return 1, nil
	}

	records := slices.Clone(s.records)
	records[pos] = rec
	idx, err := s.rebuild(records)
	if err != nil {
		return 0, err
	}
	s.records = records
	s.idx = idx
	return len(records), nil
}

// isAncestor reports whether anc is on the ancestor chain of id.
func (s *Store) isAncestor(anc, id ID) bool {
	return slices.ContainsFunc(s.idx.ancestors[id], func(r Record) bool { return r.ID == anc })
}

// patch swaps rec into every place that holds a copy of the record with the
// same ID: the record list, its node, the parent's child list, the
// descendant lists of its ancestors and the ancestor chains of its
// descendants.
func (s *Store) patch(pos int, rec Record) {
	idx := s.idx
	s.records[pos] = rec
	idx.nodes[rec.ID].rec = rec
	if !rec.IsRoot() {
		replaceRecord(idx.children[rec.Parent], rec)
	}
	for _, a := range idx.ancestors[rec.ID] {
		replaceRecord(idx.descendants[a.ID], rec)
	}
	for _, d := range idx.descendants[rec.ID] {
		replaceRecord(idx.ancestors[d.ID], rec)
	}
}

func replaceRecord(list []Record, rec Record) {
	if i := slices.IndexFunc(list, func(r Record) bool { return r.ID == rec.ID }); i >= 0 {
		list[i] = rec
	}
}

func setOrDelete(m map[ID][]Record, id ID, list []Record) {
	if len(list) == 0 {
		delete(m, id)
		return
	}
	m[id] = list
}

// init prepares a zero Store for its first mutation.
func (s *Store) init() {
	if s.log == nil {
		s.log = log.Default()
	}
	if s.idx == nil {
		s.idx = &index{
			nodes:       make(map[ID]*node),
			children:    make(map[ID][]Record),
			descendants: make(map[ID][]Record),
			ancestors:   make(map[ID][]Record),
		}
	}
}

// report forwards a finished mutation to the hooks and the debug log.
func (s *Store) report(op string, id ID, affected int, start time.Time, err error) {
	elapsed := time.Since(start)
	observability.Store().OnMutation(op, affected, elapsed, err)
	if err != nil {
		s.log.Debug("tree mutation rejected", "op", op, "id", id, "err", err)
		return
	}
	s.log.Debug("tree mutation applied", "op", op, "id", id, "affected", affected, "duration", elapsed)
}
