package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Takheer/mstroy-test/pkg/errors"
	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Relations accepted by --relation.
const (
	relAll         = "all"
	relChildren    = "children"
	relDescendants = "descendants"
	relAncestors   = "ancestors"
)

// queryResult holds a record and the relations that were asked for. A nil
// relation was not requested.
type queryResult struct {
	Item        tree.Record
	Children    []tree.Record
	Descendants []tree.Record
	Ancestors   []tree.Record
}

// MarshalJSON writes the item and only the requested relations.
func (r queryResult) MarshalJSON() ([]byte, error) {
	out := map[string]any{"item": r.Item}
	if r.Children != nil {
		out[relChildren] = r.Children
	}
	if r.Descendants != nil {
		out[relDescendants] = r.Descendants
	}
	if r.Ancestors != nil {
		out[relAncestors] = r.Ancestors
	}
	return json.Marshal(out)
}

// queryCommand creates the query command for looking up one record.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		relation string
		asJSON   bool
		stringID bool
	)

	cmd := &cobra.Command{
		Use:   "query [file] [id]",
		Short: "Look up a record and its children, descendants and ancestors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apperrors.ValidateFormat(relation, relAll, relChildren, relDescendants, relAncestors); err != nil {
				return err
			}
			if relation == "" {
				relation = relAll
			}
			relation = strings.ToLower(relation)
			id, err := parseIDArg(args[1], stringID)
			if err != nil {
				return err
			}
			s, err := c.loadStore(args[0])
			if err != nil {
				return err
			}

			res, err := query(s, id, relation)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printQuery(res, relation)
			return nil
		},
	}

	cmd.Flags().StringVarP(&relation, "relation", "r", relAll, "relation to list: all, children, descendants or ancestors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().BoolVar(&stringID, "string-id", false, "treat the id as a string even if it looks numeric")
	return cmd
}

// query collects the requested relations of id.
func query(s *tree.Store, id tree.ID, relation string) (queryResult, error) {
	rec, ok := s.Get(id)
	if !ok {
		return queryResult{}, fmt.Errorf("%w: %s", tree.ErrUnknownIdentifier, id)
	}
	res := queryResult{Item: rec}
	if relation == relAll || relation == relChildren {
		res.Children = nonNil(s.Children(id))
	}
	if relation == relAll || relation == relDescendants {
		res.Descendants = nonNil(s.Descendants(id))
	}
	if relation == relAll || relation == relAncestors {
		res.Ancestors = nonNil(s.Ancestors(id))
	}
	return res, nil
}

func printQuery(res queryResult, relation string) {
	fmt.Println(StyleTitle.Render(res.Item.ID.String()))
	printKeyValue("parent", parentLabel(res.Item))
	for _, k := range slices.Sorted(maps.Keys(res.Item.Meta)) {
		printKeyValue(k, metaValue(res.Item, k))
	}

	section := func(name string, recs []tree.Record) {
		if relation != relAll && relation != name {
			return
		}
		fmt.Println()
		printInfo("%s %s", name, StyleDim.Render(fmt.Sprintf("(%d)", len(recs))))
		if len(recs) > 0 {
			printDetail("%s", strings.Join(idStrings(recs), ", "))
		}
	}
	section(relChildren, res.Children)
	section(relDescendants, res.Descendants)
	section(relAncestors, res.Ancestors)
}

// parseIDArg turns a command-line id into a [tree.ID]. Numeric strings
// become integer ids unless asString is set.
func parseIDArg(s string, asString bool) (tree.ID, error) {
	if err := apperrors.ValidateID(s); err != nil {
		return tree.ID{}, err
	}
	if asString {
		return tree.StrID(s), nil
	}
	return tree.ParseID(s), nil
}

func idStrings(recs []tree.Record) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.ID.String()
	}
	return out
}

// nonNil marks an empty relation as requested.
func nonNil(recs []tree.Record) []tree.Record {
	if recs == nil {
		return []tree.Record{}
	}
	return recs
}
