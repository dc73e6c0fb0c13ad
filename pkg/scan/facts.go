package scan

import (
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/matzehuels/pkgcycle/pkg/model"
)

// frontend is the language-specific part of a scan.
type frontend interface {
	grammar() *sitter.Language
	prepare(root string) error
	accept(rel string) bool
	extract(rel string, src []byte, root *sitter.Node) *fileFacts
	resolve(idx *index, f *fileFacts, ref reference, includeExternal bool) (model.Name, bool)
	// locatePackages reports whether packages without an explicit location
	// get the location of their first file.
	locatePackages() bool
}

type classDecl struct {
	name     string
	abstract bool
	line     int
}

// reference is a raw type or symbol name used inside class from.
type reference struct {
	from string
	name string
}

type importSpec struct {
	alias string // explicit alias, or "" for the default
	path  string
}

// fileFacts is everything extracted from one file.
type fileFacts struct {
	path      string
	pkg       string
	pkgLine   int
	pkgInfo   bool
	classes   []classDecl
	symbols   []string // top-level values attributed to the file unit
	unit      string
	imports   []importSpec
	wildcards []string
	refs      []reference
	hasErrors bool
}

func (f *fileFacts) addRef(from, name string) {
	if from == "" || name == "" {
		return
	}
	f.refs = append(f.refs, reference{from: from, name: name})
}

// index is the symbol table built from all facts before resolution.
type index struct {
	types   map[model.Name]bool
	symbols map[model.Name]string // value name -> owning unit class
}

func newIndex(facts []*fileFacts) *index {
	idx := &index{
		types:   make(map[model.Name]bool),
		symbols: make(map[model.Name]string),
	}
	for _, f := range facts {
		for _, c := range f.classes {
			idx.types[model.Name{Package: f.pkg, Class: c.name}] = true
		}
		for _, s := range f.symbols {
			idx.symbols[model.Name{Package: f.pkg, Class: s}] = f.unit
		}
	}
	return idx
}

func (idx *index) has(n model.Name) bool { return idx.types[n] }

// text returns the source text of n, or "" for a nil node.
func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(src)
}

func line(n *sitter.Node) int { return int(n.StartPosition().Row) + 1 }

// children calls fn for every child of n.
func children(n *sitter.Node, fn func(c *sitter.Node)) {
	for i := range n.ChildCount() {
		if c := n.Child(i); c != nil {
			fn(c)
		}
	}
}

// namedChildren calls fn for every named child of n.
func namedChildren(n *sitter.Node, fn func(c *sitter.Node)) {
	for i := range n.NamedChildCount() {
		if c := n.NamedChild(i); c != nil {
			fn(c)
		}
	}
}

func isUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
