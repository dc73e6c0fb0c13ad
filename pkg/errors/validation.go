package errors

import (
	"os"
	"slices"
	"strings"
	"unicode"
)

// maxNameLength bounds package and class names from imported facts.
const maxNameLength = 512

// ValidateName checks a package or class name from imported facts. Names
// must be non-empty, at most 512 bytes, and free of whitespace and control
// characters.
func ValidateName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "name cannot be empty")
	case len(name) > maxNameLength:
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name %q contains control characters", name)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "name %q contains whitespace", name)
		}
	}
	return nil
}

// maxPathLength bounds source locations from imported facts.
const maxPathLength = 1024

// ValidatePath checks a source location from imported facts. Paths are
// slash-separated and relative to the scanned root, so absolute paths,
// backslashes and ".." segments are rejected.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.ContainsFunc(path, unicode.IsControl):
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path must be relative")
	case strings.Contains(path, "\\"):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	case slices.Contains(strings.Split(path, "/"), ".."):
		return New(ErrCodeInvalidPath, "path cannot leave the scanned root")
	}
	return nil
}

// ValidateRoot checks that root names an existing directory.
func ValidateRoot(root string) error {
	if root == "" {
		return New(ErrCodeInvalidPath, "root directory cannot be empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "cannot access %s", root)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "%s is not a directory", root)
	}
	return nil
}

// ValidateLanguage checks lang against the supported languages.
func ValidateLanguage(lang string, supported []string) error {
	if lang == "" {
		return New(ErrCodeInvalidLanguage, "language cannot be empty")
	}
	if !slices.Contains(supported, lang) {
		return New(ErrCodeInvalidLanguage, "unsupported language %q (supported: %s)",
			lang, strings.Join(supported, ", "))
	}
	return nil
}

// ValidateFormat checks format against the accepted output formats.
func ValidateFormat(format string, valid []string) error {
	if !slices.Contains(valid, format) {
		return New(ErrCodeInvalidFormat, "invalid format %q (valid: %s)",
			format, strings.Join(valid, ", "))
	}
	return nil
}
