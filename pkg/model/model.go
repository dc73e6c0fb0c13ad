package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// DefaultPackage is the name of the package that holds classes declared
// without a package qualifier.
const DefaultPackage = ""

// Name identifies a class by its package and simple name.
type Name struct {
	Package string `json:"package"`
	Class   string `json:"class"`
}

// ParseName splits a qualified class name on its last dot.
// A name without a dot belongs to [DefaultPackage].
func ParseName(qualified string) Name {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return Name{Package: DefaultPackage, Class: qualified}
	}
	return Name{Package: qualified[:i], Class: qualified[i+1:]}
}

// String returns the qualified name ("pkg.Class", or "Class" in the default package).
func (n Name) String() string {
	if n.Package == DefaultPackage {
		return n.Class
	}
	return n.Package + "." + n.Class
}

// Compare orders names by package, then by class.
func (n Name) Compare(o Name) int {
	if c := cmp.Compare(n.Package, o.Package); c != 0 {
		return c
	}
	return cmp.Compare(n.Class, o.Class)
}

// Location points at a source position. Scanners attach it to packages and
// classes as their payload.
type Location struct {
	Path string `json:"path" yaml:"path" bson:"path"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty" bson:"line,omitempty"`
}

// String formats the location as "path:line", or just the path when no line is known.
func (l Location) String() string {
	if l.Line <= 0 {
		return l.Path
	}
	return fmt.Sprintf("%s:%d", l.Path, l.Line)
}

// Model is a dependency graph over packages and classes.
//
// The zero value is not usable - use New to create a Model.
// Model is not safe for concurrent mutation.
type Model[E any] struct {
	packages map[string]*Package[E]
	names    []string // sorted keys of packages
}

// New creates an empty model.
func New[E any]() *Model[E] {
	return &Model[E]{packages: make(map[string]*Package[E])}
}

// AddPackage returns the package with the given name, creating it if needed,
// and sets its payload.
func (m *Model[E]) AddPackage(name string, external E) *Package[E] {
	p := m.getOrCreatePackage(name)
	p.external = external
	p.hasExternal = true
	return p
}

// AddClass returns the class with the given qualified name, creating it and
// its package if needed, and sets its abstract flag and payload.
func (m *Model[E]) AddClass(qualifiedName string, abstract bool, external E) *Class[E] {
	return m.AddClassName(ParseName(qualifiedName), abstract, external)
}

// AddClassName is AddClass for an already split name.
func (m *Model[E]) AddClassName(n Name, abstract bool, external E) *Class[E] {
	c := m.getOrCreateClass(n)
	c.abstract = abstract
	c.external = external
	c.hasExternal = true
	return c
}

// DeclareClass returns the class with the given name, creating it if
// needed, and sets its abstract flag. The payload is left untouched.
func (m *Model[E]) DeclareClass(n Name, abstract bool) *Class[E] {
	c := m.getOrCreateClass(n)
	c.abstract = abstract
	return c
}

// Packages returns all packages ordered by name.
func (m *Model[E]) Packages() []*Package[E] {
	out := make([]*Package[E], len(m.names))
	for i, name := range m.names {
		out[i] = m.packages[name]
	}
	return out
}

// Package looks up a package by name.
func (m *Model[E]) Package(name string) (*Package[E], bool) {
	p, ok := m.packages[name]
	return p, ok
}

// Class looks up a class by name.
func (m *Model[E]) Class(n Name) (*Class[E], bool) {
	p, ok := m.packages[n.Package]
	if !ok {
		return nil, false
	}
	return p.Class(n.Class)
}

// PackageCount returns the number of packages.
func (m *Model[E]) PackageCount() int { return len(m.packages) }

// ClassCount returns the number of classes over all packages.
func (m *Model[E]) ClassCount() int {
	n := 0
	for _, p := range m.packages {
		n += len(p.classes)
	}
	return n
}

// EdgeCount returns the number of package-level usage edges.
func (m *Model[E]) EdgeCount() int {
	n := 0
	for _, p := range m.packages {
		n += len(p.uses)
	}
	return n
}

func (m *Model[E]) getOrCreatePackage(name string) *Package[E] {
	if p, ok := m.packages[name]; ok {
		return p
	}
	p := &Package[E]{
		model:   m,
		name:    name,
		classes: make(map[string]*Class[E]),
		uses:    make(map[string]struct{}),
		usedBy:  make(map[string]struct{}),
	}
	m.packages[name] = p
	i, _ := slices.BinarySearch(m.names, name)
	m.names = slices.Insert(m.names, i, name)
	return p
}

func (m *Model[E]) getOrCreateClass(n Name) *Class[E] {
	p := m.getOrCreatePackage(n.Package)
	if c, ok := p.classes[n.Class]; ok {
		return c
	}
	c := &Class[E]{
		pkg:    p,
		name:   n.Class,
		uses:   make(map[Name]struct{}),
		usedBy: make(map[Name]struct{}),
	}
	p.classes[n.Class] = c
	i, _ := slices.BinarySearch(p.names, n.Class)
	p.names = slices.Insert(p.names, i, n.Class)
	return c
}

// packagesByName resolves a key set into packages sorted by name.
func (m *Model[E]) packagesByName(keys map[string]struct{}) []*Package[E] {
	out := make([]*Package[E], 0, len(keys))
	for k := range keys {
		out = append(out, m.packages[k])
	}
	slices.SortFunc(out, func(a, b *Package[E]) int { return cmp.Compare(a.name, b.name) })
	return out
}

// classesByName resolves a key set into classes sorted by qualified name.
func (m *Model[E]) classesByName(keys map[Name]struct{}) []*Class[E] {
	out := make([]*Class[E], 0, len(keys))
	for k := range keys {
		out = append(out, m.packages[k.Package].classes[k.Class])
	}
	slices.SortFunc(out, func(a, b *Class[E]) int { return a.Key().Compare(b.Key()) })
	return out
}
