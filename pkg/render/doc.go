// Package render draws a record tree as a node-link diagram.
//
// # Overview
//
// [ToDOT] turns a [tree.Store] into Graphviz DOT source with one box per
// record and an arrow from every parent to each of its children. [RenderSVG]
// lays the DOT out in-process with Graphviz and returns SVG:
//
//	dot := render.ToDOT(store, render.Options{LabelKey: "label"})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - LabelKey: payload field shown as the node label (falls back to the id)
//   - Detailed: append every payload field to the label
//   - Root: draw only the subtree below this record
//
// # Caching
//
// Layout dominates the cost of a render. [Renderer] keys the produced SVG by
// a hash of the DOT source and stores it in a [cache.Cache], so rendering an
// unchanged tree twice only runs Graphviz once.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package render
