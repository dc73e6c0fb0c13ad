package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/model"
	"github.com/matzehuels/pkgcycle/pkg/render/nodelink"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/rules"
	"github.com/matzehuels/pkgcycle/pkg/scan"
)

// Scan parses the source tree at opts.Root without caching.
func Scan(ctx context.Context, opts Options) (*model.Model[model.Location], scan.Stats, error) {
	s, err := scan.New(opts.Language, opts.ScanOptions())
	if err != nil {
		return nil, scan.Stats{}, err
	}
	return s.Scan(ctx, opts.Root)
}

// AnalyzerOptions returns the cycle detection options.
func (o *Options) AnalyzerOptions() []analyzer.Option {
	var out []analyzer.Option
	if o.Iterative {
		out = append(out, analyzer.WithIterative())
	}
	if o.ComponentScope {
		out = append(out, analyzer.WithComponentScope())
	}
	return out
}

// Analyze finds cycles, computes metrics and runs the default rules on m
// without caching.
func Analyze(m *model.Model[model.Location], opts Options, logger *log.Logger) *report.Report {
	res := analyzer.Analyze(m, opts.AnalyzerOptions()...)
	rctx := rules.NewContext(m, opts.Language, res.Cycles, opts.Settings, logger)
	issues := rules.Run(rctx, rules.Default())
	return report.New(res, issues, report.Options{
		Root:      opts.Root,
		Language:  opts.Language,
		MaxCycles: opts.MaxCycles,
	})
}

// Render draws the package graph of m without caching.
func Render(ctx context.Context, m *model.Model[model.Location], opts RenderOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cycles := analyzer.FindCycles(m)
	nopts := nodelink.Options{Detailed: opts.Detailed, CyclesOnly: opts.CyclesOnly}

	switch opts.Format {
	case FormatMermaid:
		return []byte(nodelink.ToMermaid(m, cycles, nopts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(m, cycles, nopts))
	default:
		return []byte(nodelink.ToDOT(m, cycles, nopts)), nil
	}
}
