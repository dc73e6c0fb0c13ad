package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/pipeline"
	"github.com/matzehuels/pkgcycle/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	scanFlags
	format     string // dot, mermaid or svg
	output     string // output file path (stdout if empty)
	detailed   bool   // show metrics in node labels
	cyclesOnly bool   // keep only packages on a cycle
}

// renderCommand creates the render command, which draws the package graph
// with cycle members and cycle edges highlighted.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "render [path]",
		Short: "Draw the package dependency graph",
		Long: `Draw the package dependency graph as Graphviz DOT, Mermaid or SVG.
Packages on a cycle and the edges between them are highlighted.

Examples:
  pkgcycle render . > packages.dot
  pkgcycle render -f svg -o packages.svg --cycles-only .
  pkgcycle render -f mermaid --detailed .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, rootArg(args), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(nodelink.Formats, ", "))
	completeChoices(cmd, "format", nodelink.Formats)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show metrics in node labels")
	cmd.Flags().BoolVar(&opts.cyclesOnly, "cycles-only", false, "only draw packages that are on a cycle")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, root string, opts *renderOpts) error {
	ropts := pipeline.RenderOptions{
		Format:     opts.format,
		Detailed:   opts.detailed,
		CyclesOnly: opts.cyclesOnly,
	}
	if err := ropts.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := c.loadConfig(root)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := startSpinner(ctx, fmt.Sprintf("Scanning %s...", root))
	defer spin.Stop()
	m, _, err := runner.Scan(ctx, opts.options(cmd, cfg, root))
	if err != nil {
		spin.Fail("Scan failed")
		return err
	}

	spin.Update(fmt.Sprintf("Rendering %s...", opts.format))
	stage := startStage(c.Logger, "render")
	data, cached, err := runner.RenderWithCacheInfo(ctx, m, ropts)
	if err != nil {
		spin.Fail("Render failed")
		return err
	}
	spin.Stop()
	stage.done("format", opts.format, "bytes", len(data), "cached", cached)

	return writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
