// Package pipeline provides the analysis pipeline shared by the CLI and the
// HTTP API.
//
// By centralizing this logic, every entry point scans, analyzes and caches
// the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Scan: Parse a source tree into a package/class model
//  2. Analyze: Enumerate package cycles, compute metrics and run the rules
//  3. Render: Draw the package graph as DOT, Mermaid or SVG
//
// Each stage can be run independently or as part of the complete pipeline.
// Every stage result is cached: scans by a digest of the source files,
// analyses and renders by a hash of the model plus their options.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:     "./src",
//	    Language: "java",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.Write(os.Stdout, result.Report, report.FormatText)
//
// Run individual stages:
//
//	// Scan only
//	m, stats, err := runner.Scan(ctx, opts)
//
//	// Analyze an existing model, for example one imported from facts JSON
//	rep, err := runner.Analyze(ctx, m, opts)
//
//	// Render the package graph
//	svg, err := runner.Render(ctx, m, pipeline.RenderOptions{Format: "svg"})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgcycle/pkg/cache"
	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/model"
	"github.com/matzehuels/pkgcycle/pkg/render/nodelink"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/rules"
	"github.com/matzehuels/pkgcycle/pkg/scan"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultLanguage is the language scanned when none is configured.
const DefaultLanguage = scan.LangJava

// Render formats.
const (
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatSVG     = "svg"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scan options
	Root            string `json:"root,omitempty"`
	Language        string `json:"language,omitempty"`
	Workers         int    `json:"workers,omitempty"`
	IncludeTests    bool   `json:"include_tests,omitempty"`
	IncludeExternal bool   `json:"include_external,omitempty"`
	Refresh         bool   `json:"refresh,omitempty"`

	// Analysis options
	Iterative      bool           `json:"iterative,omitempty"`
	ComponentScope bool           `json:"component_scope,omitempty"`
	MaxCycles      int            `json:"max_cycles,omitempty"`
	Settings       rules.Settings `json:"settings,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// RenderOptions configures the render stage.
type RenderOptions struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed,omitempty"`
	CyclesOnly bool   `json:"cycles_only,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the scanned package/class model.
	Model *model.Model[model.Location]

	// ModelHash is the content hash of the model facts.
	ModelHash string

	// Report is the analysis report.
	Report *report.Report

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Scan        scan.Stats
	ScanTime    time.Duration
	AnalyzeTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ScanHit     bool // Whether the model came from cache
	AnalysisHit bool // Whether the report came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForScan checks the source tree and language and applies defaults.
func (o *Options) ValidateForScan() error {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if err := errors.ValidateLanguage(o.Language, scan.Languages); err != nil {
		return err
	}
	if err := errors.ValidateRoot(o.Root); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative")
	}
	o.setLoggerDefault()
	return o.ValidateForAnalyze()
}

// ValidateForAnalyze checks the analysis options. The language is optional
// for imported models but must be supported when given.
func (o *Options) ValidateForAnalyze() error {
	if o.Language != "" {
		if err := errors.ValidateLanguage(o.Language, scan.Languages); err != nil {
			return err
		}
	}
	if o.MaxCycles < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max cycles must not be negative")
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ScanOptions returns the scanner options.
func (o *Options) ScanOptions() scan.Options {
	return scan.Options{
		Workers:         o.Workers,
		IncludeTests:    o.IncludeTests,
		IncludeExternal: o.IncludeExternal,
		Logger:          o.Logger,
	}
}

// AnalysisKeyOpts returns cache key options for the analysis stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Language:       o.Language,
		Iterative:      o.Iterative,
		ComponentScope: o.ComponentScope,
		MaxCycles:      o.MaxCycles,
		SettingsHash:   cache.HashJSON(o.Settings.WithDefaults()),
	}
}

// Validate checks the render format.
func (o RenderOptions) Validate() error {
	return errors.ValidateFormat(o.Format, nodelink.Formats)
}

// KeyOpts returns cache key options for the render stage.
func (o RenderOptions) KeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:     o.Format,
		Detailed:   o.Detailed,
		CyclesOnly: o.CyclesOnly,
	}
}
