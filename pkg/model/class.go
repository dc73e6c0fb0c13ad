package model

// Class is a unit inside a package. It records the classes it uses, and the
// model keeps the reverse "used by" side in sync.
type Class[E any] struct {
	pkg         *Package[E]
	name        string
	abstract    bool
	external    E
	hasExternal bool

	uses   map[Name]struct{}
	usedBy map[Name]struct{}
}

// Name returns the simple class name.
func (c *Class[E]) Name() string { return c.name }

// Key returns the package/class pair identifying the class.
func (c *Class[E]) Key() Name { return Name{Package: c.pkg.name, Class: c.name} }

// QualifiedName returns "pkg.Class".
func (c *Class[E]) QualifiedName() string { return c.Key().String() }

// Parent returns the package that owns the class.
func (c *Class[E]) Parent() *Package[E] { return c.pkg }

// IsAbstract reports whether the class was declared abstract.
func (c *Class[E]) IsAbstract() bool { return c.abstract }

// External returns the payload and whether one was registered.
func (c *Class[E]) External() (E, bool) { return c.external, c.hasExternal }

// Uses returns the classes this class uses, ordered by qualified name.
func (c *Class[E]) Uses() []*Class[E] { return c.pkg.model.classesByName(c.uses) }

// UsedBy returns the classes using this class, ordered by qualified name.
func (c *Class[E]) UsedBy() []*Class[E] { return c.pkg.model.classesByName(c.usedBy) }

// AddUsage records that c uses the class with the given qualified name.
// The target is created if needed. Usage of c by itself is ignored.
func (c *Class[E]) AddUsage(targetQualifiedName string) {
	c.AddUsageName(ParseName(targetQualifiedName))
}

// AddUsageName is AddUsage for an already split name.
func (c *Class[E]) AddUsageName(target Name) {
	t := c.pkg.model.getOrCreateClass(target)
	if t == c {
		return
	}
	c.uses[target] = struct{}{}
	t.usedBy[c.Key()] = struct{}{}
	c.pkg.addUsage(t.pkg)
}

// Equal reports whether c and o are the same class of the same model.
func (c *Class[E]) Equal(o *Class[E]) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.pkg.Equal(o.pkg) && c.name == o.name
}

// String returns the qualified name.
func (c *Class[E]) String() string { return c.QualifiedName() }
