package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/rules"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCycleStyle    = lipgloss.NewStyle().Foreground(colorYellow)
)

// browseCommand creates the browse command, an interactive package and
// cycle browser.
func (c *CLI) browseCommand() *cobra.Command {
	var opts scanFlags

	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Browse packages and cycles interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.execute(cmd, &opts, rootArg(args))
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewBrowseModel(res.Report), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	opts.register(cmd)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive package and cycle browser
// =============================================================================

// browseView selects the list shown by the browser.
type browseView int

const (
	viewPackages browseView = iota
	viewCycles
)

// BrowseModel is the bubbletea model for browsing a report. Tab switches
// between the package list and the cycle list; enter toggles details.
type BrowseModel struct {
	Report *report.Report
	Mode   browseView
	Cursor int
	Offset int
	Height int
	Detail bool

	metrics map[string]analyzer.PackageMetrics
}

// NewBrowseModel creates a browser over rep.
func NewBrowseModel(rep *report.Report) BrowseModel {
	return BrowseModel{
		Report:  rep,
		Height:  15,
		metrics: analyzer.IndexMetrics(rep.Packages),
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "tab":
			if m.Mode == viewPackages {
				m.Mode = viewCycles
			} else {
				m.Mode = viewPackages
			}
			m.Cursor, m.Offset, m.Detail = 0, 0, false
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.itemCount()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.itemCount() > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m BrowseModel) itemCount() int {
	if m.Mode == viewCycles {
		return len(m.Report.Cycles)
	}
	return len(m.Report.Packages)
}

func (m BrowseModel) View() string {
	var b strings.Builder

	title := "Packages"
	if m.Mode == viewCycles {
		title = "Cycles"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d packages · %d cycles",
		m.Report.Summary.Packages, m.Report.Summary.Cycles)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  tab switch  q quit"))
	b.WriteString("\n\n")

	if m.itemCount() == 0 {
		if m.Mode == viewCycles {
			b.WriteString(StyleSuccess.Render("No package cycles."))
		} else {
			b.WriteString(listDimStyle.Render("No packages."))
		}
		b.WriteString("\n")
		return b.String()
	}

	if m.Mode == viewCycles {
		b.WriteString(m.cycleList())
	} else {
		b.WriteString(m.packageTable())
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.itemCount())))
	b.WriteString("\n")

	if m.Detail {
		b.WriteString("\n")
		if m.Mode == viewCycles {
			b.WriteString(m.cycleDetail(m.Cursor))
		} else {
			b.WriteString(m.packageDetail(m.Report.Packages[m.Cursor]))
		}
	}
	return b.String()
}

func (m BrowseModel) visible() (int, int) {
	return m.Offset, min(m.Offset+m.Height, m.itemCount())
}

func (m BrowseModel) packageTable() string {
	start, end := m.visible()
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		pm := m.Report.Packages[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			displayName(pm.Name),
			strconv.Itoa(pm.Classes),
			strconv.Itoa(pm.Afferent),
			strconv.Itoa(pm.Efferent),
			strconv.Itoa(pm.Instability),
			strconv.Itoa(pm.Distance),
			strconv.Itoa(len(pm.CycleIDs)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Classes", "Ca", "Ce", "I%", "D%", "Cycles").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := start + row
			if idx >= end {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if len(m.Report.Packages[idx].CycleIDs) > 0 {
				base = base.Foreground(colorYellow)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})
	return t.Render()
}

func (m BrowseModel) cycleList() string {
	var b strings.Builder
	start, end := m.visible()
	for i := start; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%3d. %s", cursor, i+1, cycleString(m.Report.Cycles[i]))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if m.Report.Truncated {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  showing %d of %d cycles",
			len(m.Report.Cycles), m.Report.Summary.Cycles)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowseModel) packageDetail(pm analyzer.PackageMetrics) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(displayName(pm.Name)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  classes %d (%d abstract)  Ca %d  Ce %d  I %d%%  A %d%%  D %d%%\n",
		pm.Classes, pm.AbstractClasses, pm.Afferent, pm.Efferent,
		pm.Instability, pm.Abstractness, pm.Distance)

	if len(pm.CycleIDs) > 0 {
		b.WriteString(listCycleStyle.Render(fmt.Sprintf("  on %d cycles", len(pm.CycleIDs))))
		b.WriteString("\n")
		for _, id := range pm.CycleIDs {
			if id > len(m.Report.Cycles) {
				break
			}
			b.WriteString(listDimStyle.Render(fmt.Sprintf("    %d. %s", id, cycleString(m.Report.Cycles[id-1]))))
			b.WriteString("\n")
		}
	}

	for _, is := range m.issuesFor(pm.Name) {
		b.WriteString("  " + severityStyle(is.Severity).Render(string(is.Severity)) + " ")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%s: %s", is.Rule, is.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowseModel) cycleDetail(i int) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("Cycle %d", i+1)))
	b.WriteString("\n")
	for _, name := range m.Report.Cycles[i] {
		pm := m.metrics[name]
		fmt.Fprintf(&b, "  %-40s Ca %-3d Ce %-3d I %3d%%  on %d cycles\n",
			displayName(name), pm.Afferent, pm.Efferent, pm.Instability, len(pm.CycleIDs))
	}
	return b.String()
}

func (m BrowseModel) issuesFor(pkg string) []rules.Issue {
	var out []rules.Issue
	for _, is := range m.Report.Issues {
		if is.Package == pkg {
			out = append(out, is)
		}
	}
	return out
}

// =============================================================================
// Helpers
// =============================================================================

func cycleString(names []string) string {
	parts := make([]string, len(names)+1)
	for i, n := range names {
		parts[i] = displayName(n)
	}
	parts[len(names)] = displayName(names[0])
	return strings.Join(parts, " → ")
}

func displayName(name string) string {
	if name == "" {
		return "(default)"
	}
	return name
}
