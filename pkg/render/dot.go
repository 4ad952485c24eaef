package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// LabelKey names the payload field used as the node label. Records
	// without that field, or with an empty LabelKey, are labelled by id.
	LabelKey string

	// Detailed appends every payload field to the label.
	Detailed bool

	// Root limits the diagram to the subtree below this record. The zero ID
	// draws the whole forest.
	Root tree.ID
}

// ToDOT converts the records of s to Graphviz DOT format. Nodes appear in
// depth-first order, so the output is deterministic for a given store.
//
// Root records are drawn with a bold outline.
func ToDOT(s *tree.Store, opts Options) string {
	var nodes, edges bytes.Buffer

	s.WalkFrom(opts.Root, func(rec tree.Record, depth int) bool {
		attrs := []string{"label=" + quote(fmtLabel(rec, opts))}
		if depth == 0 {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&nodes, "  %s [%s];\n", quote(nodeName(rec.ID)), strings.Join(attrs, ", "))
		if depth > 0 {
			fmt.Fprintf(&edges, "  %s -> %s;\n", quote(nodeName(rec.Parent)), quote(nodeName(rec.ID)))
		}
		return true
	})

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

// quote returns s as a DOT double-quoted string. Only quotes, backslashes
// and line breaks are escaped; other text, non-ASCII included, is kept as is.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// nodeName keeps integer and string ids apart: IntID(1) and StrID("1") are
// different records and must be different DOT nodes.
func nodeName(id tree.ID) string {
	if id.IsInt() {
		return "i:" + id.String()
	}
	return "s:" + id.String()
}

func fmtLabel(rec tree.Record, opts Options) string {
	label := rec.ID.String()
	if opts.LabelKey != "" {
		if v, ok := rec.Meta[opts.LabelKey]; ok && v != nil {
			label = fmt.Sprint(v)
		}
	}
	if !opts.Detailed || len(rec.Meta) == 0 {
		return label
	}

	parts := []string{"id: " + rec.ID.String()}
	for _, k := range slices.Sorted(maps.Keys(rec.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, rec.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}
