package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/errors"
	pkgio "github.com/matzehuels/pkgcycle/pkg/io"
	"github.com/matzehuels/pkgcycle/pkg/model"
	"github.com/matzehuels/pkgcycle/pkg/report"
)

// exportCommand creates the export command, which writes the scanned model
// as facts JSON.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		opts   scanFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Scan a source tree and write its model as facts JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)
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

			m, stats, err := runner.Scan(ctx, opts.options(cmd, cfg, root))
			if err != nil {
				return err
			}
			printInfo("Scanned %d files", stats.Files)
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return pkgio.WriteJSON(m, w)
			})
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// importCommand creates the import command, which analyzes facts JSON
// without scanning.
func (c *CLI) importCommand() *cobra.Command {
	opts := analyzeOpts{format: report.FormatText}

	cmd := &cobra.Command{
		Use:   "import <facts.json>",
		Short: "Analyze a model from facts JSON (use - for stdin)",
		Long: `Analyze a model from facts JSON instead of scanning sources. The facts can
come from "pkgcycle export" or from any tool that writes the same format.

Examples:
  pkgcycle export -o facts.json ./src
  pkgcycle import facts.json
  other-tool | pkgcycle import -f json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(report.Formats, ", "))
	completeChoices(cmd, "format", report.Formats)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.failOnCycles, "fail-on-cycles", false, "exit with an error when package cycles exist")
	return cmd
}

func (c *CLI) runImport(cmd *cobra.Command, path string, opts *analyzeOpts) error {
	if err := errors.ValidateFormat(opts.format, report.Formats); err != nil {
		return err
	}

	m, err := readFacts(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := c.loadConfig("")
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.options(cmd, cfg, "")
	if !cmd.Flags().Changed("language") {
		// Imported facts need no language; only rules that inspect
		// sources depend on it.
		popts.Language = ""
	}
	rep, err := runner.Analyze(ctx, m, popts)
	if err != nil {
		return err
	}
	printStats(rep, false)

	if err := writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		return report.Write(w, rep, opts.format)
	}); err != nil {
		return err
	}
	if opts.failOnCycles && rep.HasCycles() {
		return errors.New(errors.ErrCodeCyclesFound, "%d package cycles found", rep.Summary.Cycles)
	}
	return nil
}

// readFacts reads facts JSON from path, or from stdin when path is "-".
func readFacts(stdin io.Reader, path string) (*model.Model[model.Location], error) {
	if path == "-" {
		return pkgio.ReadJSON(stdin)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "facts file %s", path)
	}
	m, err := pkgio.ImportJSON(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return m, nil
}
