package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/config"
	"github.com/matzehuels/pkgcycle/pkg/pipeline"
	"github.com/matzehuels/pkgcycle/pkg/scan"
)

// scanFlags holds the flags shared by every command that scans a tree.
// Flags override the config file only when set explicitly.
type scanFlags struct {
	language        string
	workers         int
	includeTests    bool
	includeExternal bool
	iterative       bool
	maxCycles       int
	noCache         bool
	refresh         bool
}

// register adds the scan flags to cmd.
func (f *scanFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.language, "language", "l", "", "source language: java or go (default from config, else java)")
	fl.IntVarP(&f.workers, "workers", "w", 0, "parallel parsers (0 = number of CPUs)")
	fl.BoolVar(&f.includeTests, "include-tests", false, "scan Go _test.go files")
	fl.BoolVar(&f.includeExternal, "include-external", false, "keep classes outside the scanned tree")
	fl.BoolVar(&f.iterative, "iterative", false, "use the iterative circuit search (deep graphs)")
	fl.IntVar(&f.maxCycles, "max", 0, "maximum cycles listed in the report (0 = all)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	completeChoices(cmd, "language", scan.Languages)
}

// options layers the explicitly set flags over cfg for a scan of root.
func (f *scanFlags) options(cmd *cobra.Command, cfg *config.Config, root string) pipeline.Options {
	opts := cfg.PipelineOptions(root)
	fl := cmd.Flags()
	if fl.Changed("language") {
		opts.Language = f.language
	}
	if fl.Changed("workers") {
		opts.Workers = f.workers
	}
	if fl.Changed("include-tests") {
		opts.IncludeTests = f.includeTests
	}
	if fl.Changed("include-external") {
		opts.IncludeExternal = f.includeExternal
	}
	if fl.Changed("iterative") {
		opts.Iterative = f.iterative
	}
	if fl.Changed("max") {
		opts.MaxCycles = f.maxCycles
	}
	opts.Refresh = f.refresh
	return opts
}
