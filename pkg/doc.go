// Package pkg provides the libraries behind treestore.
//
// # Overview
//
// Treestore keeps a flat list of records, each naming its parent by id, and
// indexes it so that the children, descendants and ancestors of any record
// are available without walking the tree. The pkg directory is organized
// around that index:
//
//  1. [tree] - The store: build, lookups and add/update/remove
//  2. [io] - Record files and mutation scripts (JSON, TOML, YAML)
//  3. [render] - Graphviz DOT and SVG diagrams of a store
//  4. [cache] - File, Redis and no-op caches for rendered diagrams
//  5. [errors] - Coded errors shared by the CLI and the HTTP API
//  6. [observability] - Hooks for metrics on builds, mutations, cache and HTTP
//
// # Architecture
//
// The typical data flow:
//
//	records.json / .toml / .yaml
//	         ↓
//	    [io] package (decode records)
//	         ↓
//	    [tree] package (index, query, mutate)
//	         ↓
//	    [render] package (DOT → SVG, cached by [cache])
//
// # Quick Start
//
//	records, err := io.Import("records.json")
//	if err != nil {
//	    return err
//	}
//	s, err := tree.New(records, tree.Options{})
//	if err != nil {
//	    return err // duplicate ids, dangling parents or cycles
//	}
//
//	for _, rec := range s.Ancestors(tree.IntID(7)) {
//	    fmt.Println(rec.ID) // nearest first
//	}
//
//	if err := s.Update(tree.Record{ID: tree.IntID(4), Parent: tree.IntID(3)}); err != nil {
//	    return err
//	}
//
// # Errors
//
// The tree package reports failures with sentinel errors such as
// [tree.ErrUnknownParent]; [errors.FromTree] turns them into coded errors
// for user-facing surfaces.
package pkg
