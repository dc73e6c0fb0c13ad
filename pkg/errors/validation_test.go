package errors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid qualified", "com.example.Foo", false},
		{"valid go import path", "github.com/acme/tool/internal/store", false},
		{"valid nested class", "com.example.Outer$Inner", false},
		{"valid go file unit", "runner.go", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"space", "foo bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "src/main.go", false},
		{"valid nested", "pkg/internal/util/helpers.go", false},
		{"valid filename only", "README.md", false},
		{"valid with dots", "v1.2.3/Foo.java", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a/", 600), true},
		{"double dots in a name", "a..b/C.java", false},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"directory", dir, false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "missing"), true},
		{"file", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoot(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoot(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidPath {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateLanguage(t *testing.T) {
	supported := []string{"java", "go"}

	if err := ValidateLanguage("java", supported); err != nil {
		t.Errorf("ValidateLanguage(java) error = %v", err)
	}
	for _, lang := range []string{"", "rust", "Java"} {
		err := ValidateLanguage(lang, supported)
		if !Is(err, ErrCodeInvalidLanguage) {
			t.Errorf("ValidateLanguage(%q) error = %v, want %v", lang, err, ErrCodeInvalidLanguage)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	valid := []string{"text", "json", "yaml"}

	if err := ValidateFormat("yaml", valid); err != nil {
		t.Errorf("ValidateFormat(yaml) error = %v", err)
	}
	err := ValidateFormat("xml", valid)
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(xml) error = %v, want %v", err, ErrCodeInvalidFormat)
	}
	if got := UserMessage(err); got != `invalid format "xml" (valid: text, json, yaml)` {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	seen := make(map[Code]bool)
	for _, code := range Codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
	if len(seen) != 11 {
		t.Errorf("len(Codes) = %d, want 11", len(seen))
	}
}
