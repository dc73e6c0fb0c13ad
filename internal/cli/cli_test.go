package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/rules"
)

func TestMain(m *testing.M) {
	statusOut = io.Discard
	os.Exit(m.Run())
}

var javaTree = map[string]string{
	"a/A.java": "package a;\nimport b.B;\npublic class A { B b; }\n",
	"b/B.java": "package b;\nimport a.A;\npublic class B { A a; }\n",
	"c/C.java": "package c;\nimport b.B;\npublic class C { B b; }\n",
}

// isolate points the config and cache lookups at empty temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)

	out, err := runCLI(t, "", "analyze", "-f", "json", root)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	rep, err := report.Read(strings.NewReader(out))
	if err != nil {
		t.Fatalf("report.Read() error = %v\n%s", err, out)
	}
	if rep.Summary.Packages != 3 || rep.Summary.Cycles != 1 {
		t.Errorf("Summary = %+v, want 3 packages and 1 cycle", rep.Summary)
	}

	text, err := runCLI(t, "", "analyze", root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "a -> b -> a") {
		t.Errorf("text report missing cycle:\n%s", text)
	}
}

func TestAnalyzeOutputFile(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)
	path := filepath.Join(t.TempDir(), "report.yaml")

	out, err := runCLI(t, "", "analyze", "--no-cache", "-f", "yaml", "-o", path, root)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("stdout should be empty with --output, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cycles:") {
		t.Errorf("YAML report missing cycles:\n%s", data)
	}
}

func TestAnalyzeFailOnCycles(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)

	_, err := runCLI(t, "", "analyze", "--fail-on-cycles", root)
	if !errors.Is(err, errors.ErrCodeCyclesFound) {
		t.Errorf("error = %v, want CYCLES_FOUND", err)
	}

	acyclic := writeTree(t, map[string]string{
		"a/A.java": "package a;\nimport b.B;\npublic class A { B b; }\n",
		"b/B.java": "package b;\npublic class B {}\n",
	})
	if _, err := runCLI(t, "", "analyze", "--fail-on-cycles", acyclic); err != nil {
		t.Errorf("acyclic tree error = %v", err)
	}
}

func TestAnalyzeInvalid(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"format", []string{"analyze", "-f", "xml", root}, errors.ErrCodeInvalidFormat},
		{"language", []string{"analyze", "-l", "cobol", root}, errors.ErrCodeInvalidLanguage},
		{"path", []string{"analyze", filepath.Join(root, "missing")}, errors.ErrCodeInvalidPath},
		{"store without uri", []string{"analyze", "--store", root}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)
	cfg := "[rules]\ndisabled = [\"package-cycle\"]\n\n[cache]\nbackend = \"memory\"\n"
	if err := os.WriteFile(filepath.Join(root, ".pkgcycle.toml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "analyze", "-f", "json", root)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := report.Read(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	for _, is := range rep.Issues {
		if is.Rule == rules.KeyPackageCycle {
			t.Fatalf("package-cycle is disabled in the config but reported: %+v", is)
		}
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[cache]\nbackend = \"s3\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "", "--config", bad, "analyze", root); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad config error = %v, want INVALID_CONFIG", err)
	}
}

func TestCyclesAndMetricsCommands(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)

	out, err := runCLI(t, "", "cycles", "--iterative", root)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "a -> b -> a" {
		t.Errorf("cycles output = %q", out)
	}

	out, err = runCLI(t, "", "metrics", root)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"PACKAGE", "CA", "a", "b", "c"} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)

	out, err := runCLI(t, "", "render", root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, `"a" -> "b"`) {
		t.Errorf("render output:\n%s", out)
	}

	out, err = runCLI(t, "", "render", "-f", "mermaid", "--cycles-only", root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "flowchart") {
		t.Errorf("mermaid output:\n%s", out)
	}

	if _, err := runCLI(t, "", "render", "-f", "pdf", root); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f pdf error = %v, want INVALID_FORMAT", err)
	}
}

func TestExportImport(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)
	facts := filepath.Join(t.TempDir(), "facts.json")

	if _, err := runCLI(t, "", "export", "-o", facts, root); err != nil {
		t.Fatalf("export error = %v", err)
	}

	out, err := runCLI(t, "", "import", "-f", "json", facts)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	rep, err := report.Read(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Summary.Cycles != 1 || rep.Language != "" {
		t.Errorf("imported report Summary = %+v, Language = %q", rep.Summary, rep.Language)
	}

	data, err := os.ReadFile(facts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, string(data), "import", "--fail-on-cycles", "-"); !errors.Is(err, errors.ErrCodeCyclesFound) {
		t.Errorf("import from stdin error = %v, want CYCLES_FOUND", err)
	}

	if _, err := runCLI(t, "", "import", filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("import missing file error = %v, want INVALID_PATH", err)
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)
	root := writeTree(t, javaTree)

	out, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	dir := strings.TrimSpace(out)
	if filepath.Base(dir) != appName {
		t.Errorf("cache path = %q", dir)
	}

	if _, err := runCLI(t, "", "analyze", root); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Fatal("analyze should populate the file cache")
	}

	if _, err := runCLI(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	entries, _ = os.ReadDir(dir)
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("cache clear left %s", e.Name())
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pkgcycle") {
		t.Error("bash completion should mention pkgcycle")
	}
	if _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestFlagCompletion(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"analyze", "--format", ""}, []string{"text", "json", "yaml"}},
		{[]string{"render", "--format", ""}, []string{"dot", "mermaid", "svg"}},
		{[]string{"cycles", "--language", ""}, []string{"java", "go"}},
	}
	for _, tt := range tests {
		out, err := runCLI(t, "", append([]string{"__complete"}, tt.args...)...)
		if err != nil {
			t.Fatalf("__complete %v: %v", tt.args, err)
		}
		for _, w := range tt.want {
			if !strings.Contains(out, w+"\n") {
				t.Errorf("__complete %v = %q, missing %q", tt.args, out, w)
			}
		}
	}
}
