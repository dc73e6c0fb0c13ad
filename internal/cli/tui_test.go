package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/rules"
)

func browseReport() *report.Report {
	return &report.Report{
		Summary: analyzer.Summary{Packages: 3, Classes: 3, Cycles: 1},
		Packages: []analyzer.PackageMetrics{
			{Name: "a", Classes: 1, Afferent: 1, Efferent: 1, Instability: 50, CycleIDs: []int{1}},
			{Name: "b", Classes: 1, Afferent: 2, Efferent: 1, Instability: 33, CycleIDs: []int{1}},
			{Name: "c", Classes: 1, Efferent: 1, Instability: 100},
		},
		Cycles: [][]string{{"a", "b"}},
		Issues: []rules.Issue{
			{Rule: rules.KeyPackageCycle, Severity: rules.SeverityCritical, Package: "b", Message: "package b is on 1 cycle"},
		},
	}
}

func press(m BrowseModel, keys ...tea.KeyMsg) (BrowseModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(BrowseModel)
	}
	return m, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func TestBrowseNavigation(t *testing.T) {
	m := NewBrowseModel(browseReport())

	m, _ = press(m, keyDown, keyDown, keyDown)
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m, _ = press(m, keyUp)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}

	m, _ = press(m, keyEnter)
	if !m.Detail {
		t.Fatal("enter should open the detail pane")
	}
	view := m.View()
	for _, want := range []string{"on 1 cycles", "a → b → a", "package b is on 1 cycle"} {
		if !strings.Contains(view, want) {
			t.Errorf("package detail missing %q:\n%s", want, view)
		}
	}

	m, cmd := press(m, keyEsc)
	if m.Detail || cmd != nil {
		t.Error("esc should close the detail pane without quitting")
	}

	m, _ = press(m, keyTab)
	if m.Mode != viewCycles || m.Cursor != 0 {
		t.Errorf("tab: Mode = %v, Cursor = %d", m.Mode, m.Cursor)
	}
	m, _ = press(m, keyEnter)
	if view := m.View(); !strings.Contains(view, "Cycle 1") {
		t.Errorf("cycle detail missing:\n%s", view)
	}

	if _, cmd := press(m, keyQuit); cmd == nil {
		t.Error("q should quit")
	}
}

func TestBrowseEmpty(t *testing.T) {
	rep := &report.Report{Packages: []analyzer.PackageMetrics{{Name: ""}}}
	m := NewBrowseModel(rep)
	if view := m.View(); !strings.Contains(view, "(default)") {
		t.Errorf("default package should be labeled:\n%s", view)
	}

	m, _ = press(m, keyTab, keyEnter)
	if m.Detail {
		t.Error("enter on an empty list should not open details")
	}
	if view := m.View(); !strings.Contains(view, "No package cycles.") {
		t.Errorf("empty cycle view:\n%s", view)
	}
}

func TestBrowseWindowSize(t *testing.T) {
	m := NewBrowseModel(browseReport())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(BrowseModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}
