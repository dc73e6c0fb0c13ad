package rules

import (
	"slices"

	"github.com/matzehuels/pkgcycle/pkg/errors"
)

// IssueMode selects where package-level issues are registered.
type IssueMode string

const (
	IssueModePackages IssueMode = "packages"
	IssueModeFallback IssueMode = "fallback"
	IssueModeClasses  IssueMode = "classes"
)

// ClassMode selects which classes receive issues in class placement.
type ClassMode string

const (
	ClassModeAll   ClassMode = "all"
	ClassModeFirst ClassMode = "first"
)

// Settings controls rule behavior.
type Settings struct {
	IssueMode IssueMode      `json:"issue_mode,omitempty" toml:"issue_mode"`
	ClassMode ClassMode      `json:"class_mode,omitempty" toml:"class_mode"`
	Maximum   map[string]int `json:"maximum,omitempty" toml:"maximum"`
	Disabled  []string       `json:"disabled,omitempty" toml:"disabled"`
}

// DefaultSettings returns fallback issue mode, all classes, default maximums.
func DefaultSettings() Settings {
	return Settings{
		IssueMode: IssueModeFallback,
		ClassMode: ClassModeAll,
	}
}

// WithDefaults fills empty modes.
func (s Settings) WithDefaults() Settings {
	if s.IssueMode == "" {
		s.IssueMode = IssueModeFallback
	}
	if s.ClassMode == "" {
		s.ClassMode = ClassModeAll
	}
	return s
}

// Validate checks modes and maximums.
func (s Settings) Validate() error {
	switch s.IssueMode {
	case "", IssueModePackages, IssueModeFallback, IssueModeClasses:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid issue mode %q (valid: packages, fallback, classes)", s.IssueMode)
	}
	switch s.ClassMode {
	case "", ClassModeAll, ClassModeFirst:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid class mode %q (valid: all, first)", s.ClassMode)
	}
	for key, v := range s.Maximum {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig,
				"maximum for %s must not be negative", key)
		}
	}
	return nil
}

// Enabled reports whether the rule with the given key is enabled.
func (s Settings) Enabled(key string) bool {
	return !slices.Contains(s.Disabled, key)
}

// MaximumFor returns the configured maximum for key, or def.
func (s Settings) MaximumFor(key string, def int) int {
	if v, ok := s.Maximum[key]; ok {
		return v
	}
	return def
}

func (s Settings) onPackage() bool {
	return s.IssueMode == IssueModePackages || s.IssueMode == IssueModeFallback
}

func (s Settings) onClasses() bool {
	return s.IssueMode == IssueModeClasses || s.IssueMode == IssueModeFallback
}
