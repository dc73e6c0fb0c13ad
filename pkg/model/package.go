package model

import (
	"maps"
	"slices"
)

// Package is a named group of classes. Package-level usage is derived from
// class usage and never set directly.
type Package[E any] struct {
	model       *Model[E]
	name        string
	external    E
	hasExternal bool

	classes map[string]*Class[E]
	names   []string            // sorted keys of classes
	uses    map[string]struct{} // package names this package uses
	usedBy  map[string]struct{} // package names using this package
}

// Name returns the package name.
func (p *Package[E]) Name() string { return p.name }

// External returns the payload and whether one was registered.
func (p *Package[E]) External() (E, bool) { return p.external, p.hasExternal }

// Classes returns the classes of the package ordered by name.
func (p *Package[E]) Classes() []*Class[E] {
	out := make([]*Class[E], len(p.names))
	for i, name := range p.names {
		out[i] = p.classes[name]
	}
	return out
}

// Class looks up a class of this package by simple name.
func (p *Package[E]) Class(name string) (*Class[E], bool) {
	c, ok := p.classes[name]
	return c, ok
}

// ClassCount returns the number of classes in the package.
func (p *Package[E]) ClassCount() int { return len(p.classes) }

// Uses returns the packages this package uses, ordered by name.
func (p *Package[E]) Uses() []*Package[E] { return p.model.packagesByName(p.uses) }

// UsedBy returns the packages that use this package, ordered by name.
func (p *Package[E]) UsedBy() []*Package[E] { return p.model.packagesByName(p.usedBy) }

// UsesNames returns the names of the used packages in sorted order.
func (p *Package[E]) UsesNames() []string { return slices.Sorted(maps.Keys(p.uses)) }

// UsesPackage reports whether p uses the package named name.
func (p *Package[E]) UsesPackage(name string) bool {
	_, ok := p.uses[name]
	return ok
}

// Equal reports whether p and o are the same package of the same model.
func (p *Package[E]) Equal(o *Package[E]) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.model == o.model && p.name == o.name
}

// String returns the package name.
func (p *Package[E]) String() string { return p.name }

func (p *Package[E]) addUsage(target *Package[E]) {
	if target.name == p.name {
		return
	}
	p.uses[target.name] = struct{}{}
	target.usedBy[p.name] = struct{}{}
}
