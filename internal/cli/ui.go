package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/rules"
)

// statusOut receives status lines, keeping stdout free for reports.
var statusOut io.Writer = os.Stderr

// Palette
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorOrange = lipgloss.Color("208")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warnings and packages on cycles.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// status line kinds
var (
	lineSuccess = statusKind{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	lineError   = statusKind{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	lineWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	lineInfo    = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

type statusKind struct {
	icon  string
	style lipgloss.Style
}

func (k statusKind) print(format string, args ...any) {
	fmt.Fprintln(statusOut, k.style.Render(k.icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { lineSuccess.print(format, args...) }
func printError(format string, args ...any)   { lineError.print(format, args...) }
func printInfo(format string, args ...any)    { lineInfo.print(format, args...) }

func printWarning(format string, args ...any) {
	lineWarning.print("%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a file that was written.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printKeyValue prints an aligned key and value.
func printKeyValue(key, value string) {
	fmt.Fprintln(statusOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// severityStyle colors a rule severity.
func severityStyle(s rules.Severity) lipgloss.Style {
	switch s {
	case rules.SeverityBlocker, rules.SeverityCritical:
		return lipgloss.NewStyle().Foreground(colorRed)
	case rules.SeverityMajor:
		return lipgloss.NewStyle().Foreground(colorOrange)
	case rules.SeverityMinor:
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return lipgloss.NewStyle().Foreground(colorGray)
	}
}

// printStats prints the report summary on one line, followed by issue
// counts per severity when there are any.
func printStats(rep *report.Report, cached bool) {
	fmt.Fprintln(statusOut, "  "+summaryLine(rep, cached))
	if line := severityLine(rep); line != "" {
		fmt.Fprintln(statusOut, "  "+line)
	}
}

func summaryLine(rep *report.Report, cached bool) string {
	s := rep.Summary
	cycles := fmt.Sprintf("%d cycles", s.Cycles)
	if s.Cycles == 0 {
		cycles = StyleSuccess.Render(cycles)
	} else {
		cycles = StyleWarning.Render(cycles)
	}
	source := StyleDim.Render("fresh")
	if cached {
		source = StyleSuccess.Render("cached")
	}
	parts := []string{
		fmt.Sprintf("%d packages", s.Packages),
		fmt.Sprintf("%d classes", s.Classes),
		cycles,
		source,
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func severityLine(rep *report.Report) string {
	counts := rep.IssuesBySeverity()
	var parts []string
	for _, sev := range rules.Severities {
		if n := counts[sev]; n > 0 {
			parts = append(parts, severityStyle(sev).Render(fmt.Sprintf("%d %s", n, sev)))
		}
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
