// Package tree indexes a flat list of records into a tree with constant-time
// lookups of children, descendants and ancestors.
//
// # Overview
//
// Each [Record] carries an [ID] and, unless it is a root, the ID of its
// parent. Records arrive as a flat list in any order, typically straight
// from a table or an API response, and the grid or view that consumes them
// needs to navigate the hierarchy. [Store] assembles the list once and keeps
// three lookups materialized per record:
//
//   - direct children ([Store.Children])
//   - all transitive descendants ([Store.Descendants])
//   - all ancestors, nearest first ([Store.Ancestors])
//
// Every read is a single map lookup. The work is paid up front, when the
// store is built, and incrementally on mutation.
//
// # Basic Usage
//
//	s, err := tree.New([]tree.Record{
//	    {ID: tree.IntID(1)},
//	    {ID: tree.StrID("docs"), Parent: tree.IntID(1)},
//	    {ID: tree.IntID(3), Parent: tree.StrID("docs")},
//	}, tree.Options{})
//	if err != nil {
//	    return err
//	}
//	s.Children(tree.IntID(1))    // [docs]
//	s.Descendants(tree.IntID(1)) // [docs 3]
//	s.Ancestors(tree.IntID(3))   // [docs 1]
//
// # Identifiers
//
// An [ID] holds either an integer or a string, so the same store can mix
// numeric keys and opaque string keys. [IntID](1) and [StrID]("1") are
// different identifiers. The zero ID marks a record as a root when used as
// its parent and is never a valid identifier of its own.
//
// # Construction
//
// [New] creates one arena node per identifier in a single pass, including
// placeholder nodes for parents that appear later in the list. The build
// then fails if:
//
//   - two records share an ID ([ErrDuplicateIdentifier])
//   - a parent is referenced but never supplied ([ErrUnknownParent])
//   - fewer records are reachable from the roots than exist, which means
//     some parent chains loop back on themselves ([ErrCyclicStructure])
//
// # Mutation
//
// [Store.Add] patches the lookups in O(depth). [Store.Remove] cascades to the
// whole subtree and ignores unknown ids. [Store.Update] rebuilds all lookups
// when a record changes parent, since that can move an arbitrary subtree,
// and patches in place when only the payload changes. Validation always runs
// before anything is modified, so a failed call leaves the store as it was.
//
// # Ordering
//
// Children keep insertion order. Descendant lists follow [Options.Order]
// after a full build ([PreOrder] or [LevelOrder]), but records added later
// are appended at the end; callers should rely on membership and count
// only. Ancestor lists are always nearest first.
//
// # Concurrency
//
// Store instances are not safe for concurrent use. Reads may run in parallel
// with each other but never with a mutation, because mutations edit the
// caches in place.
package tree
