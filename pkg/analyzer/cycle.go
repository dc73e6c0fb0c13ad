package analyzer

import (
	"slices"
	"strings"

	"github.com/matzehuels/pkgcycle/pkg/model"
)

// Cycle is an ordered sequence of distinct packages in which each package
// uses the next one and the last package uses the first.
//
// Cycles are values; Packages returns a copy so callers cannot change them.
type Cycle[E any] struct {
	packages []*model.Package[E]
}

// NewCycle wraps packages as a cycle. The slice is copied.
func NewCycle[E any](packages []*model.Package[E]) Cycle[E] {
	return Cycle[E]{packages: slices.Clone(packages)}
}

// Packages returns the packages of the cycle in order.
func (c Cycle[E]) Packages() []*model.Package[E] { return slices.Clone(c.packages) }

// Len returns the number of packages in the cycle.
func (c Cycle[E]) Len() int { return len(c.packages) }

// At returns the i-th package; the index wraps around the cycle.
func (c Cycle[E]) At(i int) *model.Package[E] {
	n := len(c.packages)
	return c.packages[((i%n)+n)%n]
}

// Contains reports whether p is part of the cycle.
func (c Cycle[E]) Contains(p *model.Package[E]) bool {
	return c.index(p.Name()) >= 0
}

// ContainsName reports whether the package named name is part of the cycle.
func (c Cycle[E]) ContainsName(name string) bool {
	return c.index(name) >= 0
}

// RotateTo returns the cycle starting at p. If p is not part of the cycle,
// c is returned unchanged.
func (c Cycle[E]) RotateTo(p *model.Package[E]) Cycle[E] {
	i := c.index(p.Name())
	if i <= 0 {
		return c
	}
	rotated := make([]*model.Package[E], 0, len(c.packages))
	rotated = append(rotated, c.packages[i:]...)
	rotated = append(rotated, c.packages[:i]...)
	return Cycle[E]{packages: rotated}
}

// Names returns the package names in cycle order.
func (c Cycle[E]) Names() []string {
	out := make([]string, len(c.packages))
	for i, p := range c.packages {
		out[i] = p.Name()
	}
	return out
}

// String renders the cycle closed, as in "a -> b -> a".
func (c Cycle[E]) String() string {
	if len(c.packages) == 0 {
		return ""
	}
	names := c.Names()
	return strings.Join(append(names, names[0]), " -> ")
}

func (c Cycle[E]) index(name string) int {
	return slices.IndexFunc(c.packages, func(p *model.Package[E]) bool {
		return p.Name() == name
	})
}
