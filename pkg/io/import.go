package io

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

// ErrInvalidFacts is wrapped by every validation error of [ReadJSON].
var ErrInvalidFacts = stderrors.New("invalid facts")

// ReadJSON decodes facts JSON from r into a model.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A class, package or usage endpoint has an invalid name
//   - A location path is absolute or escapes the tree
//
// Validation errors carry [errors.ErrCodeInvalidInput] and wrap
// [ErrInvalidFacts]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*model.Model[model.Location], error) {
	var facts Facts
	if err := json.NewDecoder(r).Decode(&facts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode facts")
	}
	return facts.Model()
}

// Model validates the facts and builds a model from them. Class names and
// non-default package names must pass [errors.ValidateName]; location paths
// must be relative and pass [errors.ValidatePath].
func (f Facts) Model() (*model.Model[model.Location], error) {
	m := model.New[model.Location]()

	for i, p := range f.Packages {
		if err := errors.ValidateName(p.Name); err != nil {
			return nil, invalid(err, "package %d", i)
		}
		if p.Location != nil {
			if err := checkLocation(*p.Location); err != nil {
				return nil, invalid(err, "package %s", p.Name)
			}
			m.AddPackage(p.Name, *p.Location)
		}
	}
	for i, c := range f.Classes {
		n := model.Name{Package: c.Package, Class: c.Name}
		if err := checkName(n); err != nil {
			return nil, invalid(err, "class %d", i)
		}
		if c.Location != nil {
			if err := checkLocation(*c.Location); err != nil {
				return nil, invalid(err, "class %s", n)
			}
			m.AddClassName(n, c.Abstract, *c.Location)
		} else {
			m.DeclareClass(n, c.Abstract)
		}
	}
	for i, u := range f.Usages {
		if err := checkName(u.From); err != nil {
			return nil, invalid(err, "usage %d: from", i)
		}
		if err := checkName(u.To); err != nil {
			return nil, invalid(err, "usage %d: to", i)
		}
		from, ok := m.Class(u.From)
		if !ok {
			from = m.DeclareClass(u.From, false)
		}
		from.AddUsageName(u.To)
	}
	return m, nil
}

func checkName(n model.Name) error {
	if n.Package != "" {
		if err := errors.ValidateName(n.Package); err != nil {
			return err
		}
	}
	return errors.ValidateName(n.Class)
}

func checkLocation(l model.Location) error {
	if l.Line < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative line %d", l.Line)
	}
	return errors.ValidatePath(l.Path)
}

func invalid(cause error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidInput, fmt.Errorf("%w: %w", ErrInvalidFacts, cause), format, args...)
}

// ImportJSON reads a facts file at path and returns the decoded model.
//
// ImportJSON returns the same validation errors as [ReadJSON], wrapped with
// the file path for context.
func ImportJSON(path string) (*model.Model[model.Location], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	m, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
