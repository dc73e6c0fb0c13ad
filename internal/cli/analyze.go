package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/config"
	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/pipeline"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/store"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	scanFlags
	format       string // report format: text, json or yaml
	output       string // output file path (stdout if empty)
	failOnCycles bool   // return an error when cycles exist
	store        bool   // save the report to MongoDB
}

// analyzeCommand creates the analyze command: scan, detect cycles, compute
// metrics and run the rules.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{format: report.FormatText}

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Scan a source tree and report package cycles, metrics and issues",
		Long: `Scan a source tree and report package cycles, metrics and issues.

Examples:
  pkgcycle analyze ./src                        # Java tree, text report
  pkgcycle analyze -l go .                      # Go module
  pkgcycle analyze -f json -o report.json .     # JSON report to a file
  pkgcycle analyze --fail-on-cycles .           # exit with an error on cycles`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, rootArg(args), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(report.Formats, ", "))
	completeChoices(cmd, "format", report.Formats)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.failOnCycles, "fail-on-cycles", false, "exit with an error when package cycles exist")
	cmd.Flags().BoolVar(&opts.store, "store", false, "save the report to the configured MongoDB store")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, root string, opts *analyzeOpts) error {
	if err := errors.ValidateFormat(opts.format, report.Formats); err != nil {
		return err
	}

	res, cfg, err := c.execute(cmd, &opts.scanFlags, root)
	if err != nil {
		return err
	}
	rep := res.Report

	if err := writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		return report.Write(w, rep, opts.format)
	}); err != nil {
		return err
	}

	if opts.store {
		if err := c.saveReport(cmd, cfg.Store, rep); err != nil {
			return err
		}
	}

	if rep.HasCycles() {
		printNextStep("Browse the cycles", "pkgcycle browse "+root)
		if opts.failOnCycles {
			return errors.New(errors.ErrCodeCyclesFound, "%d package cycles found", rep.Summary.Cycles)
		}
	}
	return nil
}

// cyclesCommand creates the cycles command, which lists only the cycles.
func (c *CLI) cyclesCommand() *cobra.Command {
	var opts scanFlags

	cmd := &cobra.Command{
		Use:   "cycles [path]",
		Short: "List the elementary package cycles of a source tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.execute(cmd, &opts, rootArg(args))
			if err != nil {
				return err
			}
			writeCycles(cmd.OutOrStdout(), res.Report)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

// metricsCommand creates the metrics command, which prints the per-package
// metrics table.
func (c *CLI) metricsCommand() *cobra.Command {
	var opts scanFlags

	cmd := &cobra.Command{
		Use:   "metrics [path]",
		Short: "Print coupling and abstractness metrics per package",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.execute(cmd, &opts, rootArg(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.MetricsTable(res.Report.Packages))
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

// execute loads the config for root and runs the scan and analysis stages.
func (c *CLI) execute(cmd *cobra.Command, f *scanFlags, root string) (*pipeline.Result, *config.Config, error) {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(root)
	if err != nil {
		return nil, nil, err
	}

	runner, err := c.newRunner(ctx, cfg.Cache, f.noCache)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	stage := startStage(c.Logger, "analyze")
	spin := startSpinner(ctx, fmt.Sprintf("Analyzing %s...", root))
	res, err := runner.Execute(ctx, f.options(cmd, cfg, root))
	spin.Stop()
	if err != nil {
		return nil, nil, err
	}
	stage.done("root", root, "cycles", res.Report.Summary.Cycles)
	printStats(res.Report, res.CacheInfo.ScanHit && res.CacheInfo.AnalysisHit)
	return res, cfg, nil
}

// saveReport stores rep in the MongoDB store named by cfg.
func (c *CLI) saveReport(cmd *cobra.Command, cfg config.Store, rep *report.Report) error {
	if cfg.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "--store needs store.mongo_uri in the config file")
	}
	ctx := cmd.Context()
	st, err := store.NewMongo(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	if err := st.Save(ctx, rep); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	printSuccess("Saved report %s", rep.ID)
	return nil
}

// writeCycles prints one cycle per line, closed on its first package.
func writeCycles(w io.Writer, rep *report.Report) {
	if len(rep.Cycles) == 0 {
		fmt.Fprintln(w, "no package cycles")
		return
	}
	for _, cy := range rep.Cycles {
		fmt.Fprintln(w, strings.Join(cy, " -> ")+" -> "+cy[0])
	}
	if rep.Truncated {
		fmt.Fprintf(w, "(showing %d of %d)\n", len(rep.Cycles), rep.Summary.Cycles)
	}
}

// writeOutput calls write with a file at path, or with stdout when path
// is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(path)
	return nil
}
