package cli

import (
	"fmt"

	lgtree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// treeCommand creates the tree command for printing the hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		root     string
		label    string
		stringID bool
	)

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the record hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadStore(args[0])
			if err != nil {
				return err
			}

			var start tree.ID
			if root != "" {
				if start, err = parseIDArg(root, stringID); err != nil {
					return err
				}
				if !s.Has(start) {
					return fmt.Errorf("%w: %s", tree.ErrUnknownIdentifier, start)
				}
			}
			fmt.Println(hierarchy(s, start, label))
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "print only the subtree below this id")
	cmd.Flags().StringVar(&label, "label", "label", "payload field shown next to each id")
	cmd.Flags().BoolVar(&stringID, "string-id", false, "treat --root as a string id even if it looks numeric")
	return cmd
}

// hierarchy renders the forest, or the subtree rooted at start, as a
// lipgloss tree.
func hierarchy(s *tree.Store, start tree.ID, labelKey string) *lgtree.Tree {
	var build func(rec tree.Record) *lgtree.Tree
	build = func(rec tree.Record) *lgtree.Tree {
		t := lgtree.Root(nodeLabel(rec, labelKey))
		for _, child := range s.Children(rec.ID) {
			if len(s.Children(child.ID)) == 0 {
				t.Child(nodeLabel(child, labelKey))
			} else {
				t.Child(build(child))
			}
		}
		return t
	}

	var t *lgtree.Tree
	if start.IsZero() {
		t = lgtree.New()
		for _, root := range s.Roots() {
			t.Child(build(root))
		}
	} else {
		rec, _ := s.Get(start)
		t = build(rec)
	}

	return t.
		Enumerator(lgtree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleTitle)
}

// nodeLabel prints the id, followed by the label field when present.
func nodeLabel(rec tree.Record, labelKey string) string {
	id := StyleHighlight.Render(rec.ID.String())
	if v := metaValue(rec, labelKey); v != "" && labelKey != "" {
		return id + " " + StyleValue.Render(v)
	}
	return id
}
