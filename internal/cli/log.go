// Package cli implements the pkgcycle command-line interface.
//
// This package provides commands for scanning Java and Go source trees,
// reporting package cycles, metrics and rule violations, rendering the
// package graph and serving the HTTP API. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - analyze: Full report with cycles, metrics and issues
//   - cycles, metrics: One part of the report
//   - render: DOT, Mermaid or SVG drawing of the package graph
//   - export, import: Model facts as JSON
//   - browse, watch: Interactive and continuous analysis
//   - serve: HTTP API
//   - cache: Manage the result cache
//
// # Configuration
//
// Commands read .pkgcycle.toml from the scanned root or the user config
// directory; flags set on the command line take precedence.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Status lines
// go to stderr so that reports written to stdout stay machine-readable.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps use "15:04:05.00"; the
// level can be raised later with SetLogLevel.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stageTimer logs how long a named command stage took.
type stageTimer struct {
	logger *log.Logger
	stage  string
	start  time.Time
}

func startStage(l *log.Logger, stage string) stageTimer {
	l.Debug("stage started", "stage", stage)
	return stageTimer{logger: l, stage: stage, start: time.Now()}
}

// done logs the stage with its elapsed time and the given key-value pairs.
func (t stageTimer) done(keyvals ...any) time.Duration {
	elapsed := time.Since(t.start).Round(time.Millisecond)
	t.logger.Info(t.stage, append([]any{"took", elapsed}, keyvals...)...)
	return elapsed
}
