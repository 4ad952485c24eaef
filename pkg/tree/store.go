package tree

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidID is returned when a record carries the zero ID as its own
	// identifier, or when a decoded value cannot be turned into an ID.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrDuplicateIdentifier is returned by [New] and [Store.Add] when a
	// record's ID is already present. Identifiers are unique per store.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrUnknownParent is returned by [Store.Add] and [Store.Update] when the
	// record names a parent the store does not know, and by [New] when a
	// parent is referenced but never supplied as a record.
	ErrUnknownParent = errors.New("unknown parent")

	// ErrUnknownIdentifier is returned by [Store.Update] when the target
	// record does not exist.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrCyclicStructure is returned when a parent chain does not end at a
	// root: by [New] when fewer nodes are reachable from the roots than
	// there are identifiers or a chain dangles, and by [Store.Update] when
	// the new parent is the record itself or one of its descendants.
	ErrCyclicStructure = errors.New("cyclic parent relationship")
)

// Order selects how descendant lists are materialized. Only membership and
// count of [Store.Descendants] are guaranteed; Order makes the sequence
// predictable after a full build.
type Order int

const (
	// PreOrder lists descendants depth-first, each child followed by its own
	// subtree. Lists are assembled bottom-up from the children's lists.
	PreOrder Order = iota
	// LevelOrder lists descendants breadth-first, nearest level first. Each
	// node is walked separately, so a full build is O(n²) in the worst case.
	LevelOrder
)

// String returns "preorder" or "level".
func (o Order) String() string {
	if o == LevelOrder {
		return "level"
	}
	return "preorder"
}

// ParseOrder is the inverse of [Order.String]. The empty string selects
// [PreOrder].
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "preorder", "pre-order", "dfs":
		return PreOrder, nil
	case "level", "levelorder", "level-order", "bfs":
		return LevelOrder, nil
	}
	return PreOrder, fmt.Errorf("unknown order %q (want preorder or level)", s)
}

// Options configures a [Store].
type Options struct {
	// Order controls descendant ordering after a full build.
	Order Order

	// Logger receives debug events for builds and mutations.
	// Defaults to log.Default().
	Logger *log.Logger
}

// node is an arena entry. Relations are stored as identifiers resolved
// through index.nodes, never as pointers to other nodes.
type node struct {
	rec      Record
	present  bool // false for a parent referenced before its own record
	children []ID
}

// index holds everything derived from the record list. A full build creates
// a fresh index so that a failed rebuild leaves the previous one intact.
type index struct {
	nodes       map[ID]*node
	roots       []ID
	children    map[ID][]Record
	descendants map[ID][]Record
	ancestors   map[ID][]Record
}

// Store is an in-memory tree over a flat record list with constant-time
// lookups of a record's direct children, all of its descendants and all of
// its ancestors.
//
// Slices returned by the read methods are views into the store's caches:
// they must not be modified and are only valid until the next mutation.
//
// The zero Store is an empty store with default options. Use [New] to
// build one from existing records.
//
// A Store is not safe for concurrent use. Concurrent reads are fine as long
// as no mutation runs at the same time; callers must serialize writers.
type Store struct {
	records []Record
	idx     *index
	opts    Options
	log     *log.Logger
}

// New builds a store from records, given in any order (a child may appear
// before its parent). The slice is copied; the records' payloads are not.
//
// New returns an error wrapping [ErrInvalidID] or [ErrDuplicateIdentifier]
// for bad identifiers and [ErrCyclicStructure] when a parent chain does not
// end at a root. When the chain breaks because a parent is never supplied,
// the error also wraps [ErrUnknownParent].
func New(records []Record, opts Options) (*Store, error) {
	s := &Store{
		records: slices.Clone(records),
		opts:    opts,
		log:     opts.Logger,
	}
	if s.log == nil {
		s.log = log.Default()
	}
	idx, err := s.rebuild(s.records)
	if err != nil {
		return nil, err
	}
	s.idx = idx
	return s, nil
}

// Options returns the options the store was built with.
func (s *Store) Options() Options { return s.opts }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// All returns every record in insertion order. Updated records keep their
// position; removed records leave no gap.
func (s *Store) All() []Record { return slices.Clip(s.records) }

// view returns the index reads go through. A zero Store has none until its
// first mutation.
func (s *Store) view() *index {
	if s.idx == nil {
		return &index{}
	}
	return s.idx
}

// Has reports whether a record with the given id exists.
func (s *Store) Has(id ID) bool {
	_, ok := s.view().nodes[id]
	return ok
}

// Get returns the record with the given id and true, or the zero Record and
// false if there is none.
func (s *Store) Get(id ID) (Record, bool) {
	n, ok := s.view().nodes[id]
	if !ok {
		return Record{}, false
	}
	return n.rec, true
}

// Children returns the direct children of id in insertion order. Returns nil
// for leaves and unknown ids.
func (s *Store) Children(id ID) []Record { return slices.Clip(s.view().children[id]) }

// Descendants returns every transitive descendant of id, excluding id
// itself. The sequence follows [Options.Order] after a full build; records
// added since are appended at the end. Returns nil for leaves and unknown
// ids.
func (s *Store) Descendants(id ID) []Record { return slices.Clip(s.view().descendants[id]) }

// Ancestors returns the ancestors of id, nearest parent first and the root
// last. The record itself is not included, so roots and unknown ids yield
// nil.
func (s *Store) Ancestors(id ID) []Record { return slices.Clip(s.view().ancestors[id]) }

// Depth returns the number of ancestors of id: 0 for roots, 1 for their
// children. The boolean is false for unknown ids.
func (s *Store) Depth(id ID) (int, bool) {
	if !s.Has(id) {
		return 0, false
	}
	return len(s.view().ancestors[id]), true
}

// Roots returns the records without a parent in insertion order.
func (s *Store) Roots() []Record {
	idx := s.view()
	roots := make([]Record, 0, len(idx.roots))
	for _, id := range idx.roots {
		roots = append(roots, idx.nodes[id].rec)
	}
	return roots
}

// Walk visits every record depth-first, parents before children and
// siblings in insertion order, passing the record's depth (0 for roots).
// Returning false from fn skips the record's subtree.
func (s *Store) Walk(fn func(rec Record, depth int) bool) {
	s.WalkFrom(ID{}, fn)
}

// WalkFrom is like [Store.Walk] but starts at the record with the given id,
// which is visited at depth 0. The zero ID walks the whole forest; unknown
// ids visit nothing.
func (s *Store) WalkFrom(start ID, fn func(rec Record, depth int) bool) {
	type frame struct {
		id    ID
		depth int
	}

	idx := s.view()
	var stack []frame
	if start.IsZero() {
		for i := len(idx.roots) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: idx.roots[i]})
		}
	} else if s.Has(start) {
		stack = append(stack, frame{id: start})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := idx.nodes[f.id]
		if !fn(n.rec, f.depth) {
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: n.children[i], depth: f.depth + 1})
		}
	}
}
