// Package report assembles the outcome of one analysis run into a
// serializable [Report] and writes it as text, JSON or YAML.
//
// A report is a plain value: package names instead of model handles, so it
// can be cached, stored and sent over the wire.
//
//	r := report.New(res, issues, report.Options{Root: ".", Language: "java"})
//	err := report.Write(os.Stdout, r, report.FormatText)
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/rules"
)

// Report is the serializable result of one analysis.
type Report struct {
	ID         string                    `json:"id" yaml:"id" bson:"_id"`
	CreatedAt  time.Time                 `json:"created_at" yaml:"created_at" bson:"created_at"`
	Root       string                    `json:"root,omitempty" yaml:"root,omitempty" bson:"root,omitempty"`
	Language   string                    `json:"language,omitempty" yaml:"language,omitempty" bson:"language,omitempty"`
	Summary    analyzer.Summary          `json:"summary" yaml:"summary" bson:"summary"`
	Packages   []analyzer.PackageMetrics `json:"packages" yaml:"packages" bson:"packages"`
	Cycles     [][]string                `json:"cycles" yaml:"cycles" bson:"cycles"`
	Components [][]string                `json:"components" yaml:"components" bson:"components"`
	Issues     []rules.Issue             `json:"issues" yaml:"issues" bson:"issues"`
	Truncated  bool                      `json:"truncated,omitempty" yaml:"truncated,omitempty" bson:"truncated,omitempty"`
}

// Options describes the run a report belongs to.
type Options struct {
	Root     string
	Language string
	// MaxCycles caps the reported cycles; 0 reports all. Summary.Cycles
	// always holds the full count.
	MaxCycles int
}

// New builds a report from an analysis result and the issues found on it.
func New[E any](res *analyzer.Result[E], issues []rules.Issue, opts Options) *Report {
	cycles := analyzer.CycleNames(res.Cycles)
	truncated := false
	if opts.MaxCycles > 0 && len(cycles) > opts.MaxCycles {
		cycles = cycles[:opts.MaxCycles]
		truncated = true
	}
	if issues == nil {
		issues = []rules.Issue{}
	}
	return &Report{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Root:       opts.Root,
		Language:   opts.Language,
		Summary:    res.Summary,
		Packages:   res.Metrics,
		Cycles:     cycles,
		Components: analyzer.ComponentNames(res.Components),
		Issues:     issues,
		Truncated:  truncated,
	}
}

// HasCycles reports whether the analysis found any package cycle.
func (r *Report) HasCycles() bool { return r.Summary.Cycles > 0 }

// IssuesBySeverity counts issues per severity.
func (r *Report) IssuesBySeverity() map[rules.Severity]int {
	out := make(map[rules.Severity]int)
	for _, i := range r.Issues {
		out[i.Severity]++
	}
	return out
}
