package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Takheer/mstroy-test/pkg/errors"
	"github.com/Takheer/mstroy-test/pkg/render"
	"github.com/Takheer/mstroy-test/pkg/tree"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path, "-" for stdout
	format   string // "dot" or "svg"; inferred from output when empty
	label    string // payload field used as node label
	root     string // optional subtree root
	stringID bool   // treat root as a string id
	detailed bool   // add every payload field to the label
	noCache  bool   // bypass the diagram cache
}

// renderCommand creates the render command for drawing node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the tree as a Graphviz DOT or SVG diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.svg, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot or svg (default from extension)")
	cmd.Flags().StringVar(&opts.label, "label", "label", "payload field used as node label")
	cmd.Flags().StringVar(&opts.root, "root", "", "render only the subtree below this id")
	cmd.Flags().BoolVar(&opts.stringID, "string-id", false, "treat --root as a string id even if it looks numeric")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show every payload field in the nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached diagram exists")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()

	switch {
	case opts.output == "" && input == "-":
		opts.output = "-"
	case opts.output == "":
		ext := strings.ToLower(opts.format)
		if ext == "" {
			ext = render.FormatSVG
		}
		opts.output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
	}
	if opts.output != "-" {
		if err := apperrors.ValidatePath(opts.output); err != nil {
			return err
		}
	}
	if opts.format == "" {
		opts.format = apperrors.FormatFromPath(opts.output)
	}
	if opts.format == "" {
		opts.format = render.FormatSVG
	}
	if err := apperrors.ValidateFormat(opts.format, render.FormatDOT, render.FormatSVG); err != nil {
		return err
	}

	s, err := c.loadStore(input)
	if err != nil {
		return err
	}

	ropts := render.Options{LabelKey: opts.label, Detailed: opts.detailed}
	if opts.root != "" {
		if ropts.Root, err = parseIDArg(opts.root, opts.stringID); err != nil {
			return err
		}
		if !s.Has(ropts.Root) {
			return fmt.Errorf("%w: %s", tree.ErrUnknownIdentifier, ropts.Root)
		}
	}

	store, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()
	r := &render.Renderer{Cache: store, TTL: c.Config.Cache.ttl}

	spinner := newSpinnerWithContext(ctx, "Rendering "+pluralize(s.Len(), "record")+"...")
	spinner.Start()
	data, cached, err := r.RenderCached(ctx, s, ropts, opts.format)
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", strings.ToUpper(opts.format))
	printFile(opts.output)
	printRenderStats(len(data), cached)
	return nil
}
