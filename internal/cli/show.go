package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// showCommand creates the show command for printing records as a table.
func (c *CLI) showCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print records as a table with tree statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadStore(args[0])
			if err != nil {
				return err
			}
			fmt.Println(recordTable(s, limit).Render())
			if limit > 0 && s.Len() > limit {
				printDetail("… %d more", s.Len()-limit)
			}
			printStats(statsOf(s))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n records (0 for all)")
	return cmd
}

// recordTable lays out records in store order with their relation counts
// and every payload field that appears in any record.
func recordTable(s *tree.Store, limit int) *table.Table {
	records := s.All()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	keys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec.Meta {
			keys[k] = struct{}{}
		}
	}
	fields := slices.Sorted(maps.Keys(keys))

	headers := append([]string{"ID", "Parent", "Depth", "Children", "Descendants"}, fields...)
	t := newTable(headers...)
	for _, rec := range records {
		depth, _ := s.Depth(rec.ID)
		row := []string{
			rec.ID.String(),
			parentLabel(rec),
			strconv.Itoa(depth),
			strconv.Itoa(len(s.Children(rec.ID))),
			strconv.Itoa(len(s.Descendants(rec.ID))),
		}
		for _, f := range fields {
			row = append(row, metaValue(rec, f))
		}
		t.Row(row...)
	}
	return t
}

// statsOf counts roots and leaves and finds the deepest record.
func statsOf(s *tree.Store) treeStats {
	st := treeStats{records: s.Len(), roots: len(s.Roots())}
	for _, rec := range s.All() {
		if len(s.Children(rec.ID)) == 0 {
			st.leaves++
		}
		if d, _ := s.Depth(rec.ID); d > st.maxDepth {
			st.maxDepth = d
		}
	}
	return st
}

func parentLabel(rec tree.Record) string {
	if rec.IsRoot() {
		return "-"
	}
	return rec.Parent.String()
}

func metaValue(rec tree.Record, key string) string {
	v, ok := rec.Meta[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
