package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/Takheer/mstroy-test/pkg/errors"
	recordio "github.com/Takheer/mstroy-test/pkg/io"
)

// applyCommand creates the apply command for running a mutation script.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		output  string
		inPlace bool
	)

	cmd := &cobra.Command{
		Use:   "apply [file] [script]",
		Short: "Apply add, update and remove operations from a script",
		Long: `Apply runs the operations of a TOML, YAML or JSON script against a record
file in order and writes the resulting records. It stops at the first failing
operation; nothing is written in that case.

Script example (TOML):

  [[ops]]
  op = "add"
  id = 9
  parent = 4
  label = "new leaf"

  [[ops]]
  op = "remove"
  id = "X"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inPlace {
				output = args[0]
			}
			if output != "-" {
				if err := apperrors.ValidatePath(output); err != nil {
					return err
				}
			}

			s, err := c.loadStore(args[0])
			if err != nil {
				return err
			}
			ops, err := recordio.ReadScript(args[1])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			n, err := recordio.Apply(s, ops)
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], apperrors.FromTree(err))
			}
			prog.done(fmt.Sprintf("Applied %s", pluralize(n, "operation")))

			if err := recordio.Export(s.All(), output); err != nil {
				return err
			}
			if output != "-" {
				printSuccess("Wrote %s", pluralize(s.Len(), "record"))
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (format from extension, - for JSON on stdout)")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "overwrite the input file")
	cmd.MarkFlagsMutuallyExclusive("output", "in-place")
	return cmd
}
