package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/rules"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Write encodes r to w in the given format.
func Write(w io.Writer, r *Report, format string) error {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, Text(r))
		return err
	}
}

// Read decodes a JSON report.
func Read(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode report")
	}
	return &r, nil
}

// Text renders r as a plain-text report.
func Text(r *Report) string {
	var b strings.Builder

	s := r.Summary
	fmt.Fprintf(&b, "Report %s\n", r.ID)
	if r.Root != "" {
		fmt.Fprintf(&b, "Root: %s (%s)\n", r.Root, r.Language)
	}
	fmt.Fprintf(&b, "Packages: %d  Classes: %d  Edges: %d  Cycles: %d  Average degree: %.2f\n",
		s.Packages, s.Classes, s.Edges, s.Cycles, s.AverageDegree)

	b.WriteString("\nCycles\n")
	if len(r.Cycles) == 0 {
		b.WriteString("  none\n")
	}
	for i, c := range r.Cycles {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, strings.Join(c, " -> ")+" -> "+c[0])
	}
	if r.Truncated {
		fmt.Fprintf(&b, "  (showing %d of %d)\n", len(r.Cycles), s.Cycles)
	}

	if len(r.Components) > 0 {
		b.WriteString("\nTangled components\n")
		for _, comp := range r.Components {
			fmt.Fprintf(&b, "  %s\n", strings.Join(comp, ", "))
		}
	}

	if len(r.Packages) > 0 {
		b.WriteString("\nMetrics\n")
		b.WriteString(MetricsTable(r.Packages))
		b.WriteString("\n")
	}

	b.WriteString("\nIssues\n")
	if len(r.Issues) == 0 {
		b.WriteString("  none\n")
	}
	for _, i := range r.Issues {
		fmt.Fprintf(&b, "  %s\n", issueLine(i))
	}
	return b.String()
}

// MetricsTable renders package metrics as a bordered table.
func MetricsTable(ms []analyzer.PackageMetrics) string {
	rows := make([][]string, len(ms))
	for i, m := range ms {
		name := m.Name
		if name == "" {
			name = "(default)"
		}
		rows[i] = []string{
			name,
			strconv.Itoa(m.Classes),
			strconv.Itoa(m.Afferent),
			strconv.Itoa(m.Efferent),
			strconv.Itoa(m.Instability),
			strconv.Itoa(m.Abstractness),
			strconv.Itoa(m.Distance),
			cycleIDs(m.CycleIDs),
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PACKAGE", "CLASSES", "CA", "CE", "I%", "A%", "D%", "CYCLES").
		Rows(rows...).
		String()
}

func issueLine(i rules.Issue) string {
	loc := i.Location.String()
	if loc == "" {
		loc = "-"
	}
	return fmt.Sprintf("%-8s %s [%s] %s: %s", i.Severity, loc, i.Rule, i.Target(), i.Message)
}

func cycleIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
