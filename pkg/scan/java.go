package scan

import (
	"path"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/matzehuels/pkgcycle/pkg/model"
)

const packageInfoFile = "package-info.java"

// javaTypeKinds are the declarations that become classes.
var javaTypeKinds = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

type javaFrontend struct{}

func (javaFrontend) grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_java.Language())
}

func (javaFrontend) prepare(string) error { return nil }

func (javaFrontend) accept(rel string) bool { return strings.HasSuffix(rel, ".java") }

func (javaFrontend) locatePackages() bool { return false }

func (j javaFrontend) extract(rel string, src []byte, root *sitter.Node) *fileFacts {
	f := &fileFacts{path: rel}
	namedChildren(root, func(n *sitter.Node) {
		switch n.Kind() {
		case "package_declaration":
			children(n, func(c *sitter.Node) {
				if c.Kind() == "scoped_identifier" || c.Kind() == "identifier" {
					f.pkg = text(c, src)
				}
			})
			f.pkgLine = line(n)
			f.pkgInfo = path.Base(rel) == packageInfoFile
		case "import_declaration":
			javaImport(f, n, src)
		}
	})
	j.walk(f, root, src, "")
	return f
}

// javaImport records a single, static or wildcard import. A static import
// names a member, so its class is the import minus the last segment.
func javaImport(f *fileFacts, n *sitter.Node, src []byte) {
	var name string
	var static, wildcard bool
	children(n, func(c *sitter.Node) {
		switch c.Kind() {
		case "static":
			static = true
		case "scoped_identifier", "identifier":
			name = text(c, src)
		case "asterisk":
			wildcard = true
		}
	})
	if name == "" {
		return
	}
	if wildcard {
		f.wildcards = append(f.wildcards, name)
		return
	}
	if static {
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return
		}
		name = name[:i]
	}
	f.imports = append(f.imports, importSpec{alias: name[strings.LastIndexByte(name, '.')+1:], path: name})
}

// walk records type declarations and the references made inside them.
// enclosing is the binary name of the innermost enclosing type.
func (j javaFrontend) walk(f *fileFacts, n *sitter.Node, src []byte, enclosing string) {
	kind := n.Kind()
	switch {
	case javaTypeKinds[kind]:
		name := text(n.ChildByFieldName("name"), src)
		if name == "" {
			return
		}
		if enclosing != "" {
			name = enclosing + "$" + name
		}
		f.classes = append(f.classes, classDecl{name: name, abstract: javaAbstract(n, src), line: line(n)})
		enclosing = name
	case kind == "package_declaration" || kind == "import_declaration":
		return
	case kind == "type_identifier":
		f.addRef(enclosing, text(n, src))
		return
	case kind == "scoped_type_identifier":
		f.addRef(enclosing, strings.Join(strings.Fields(text(n, src)), ""))
		return
	case kind == "marker_annotation" || kind == "annotation":
		f.addRef(enclosing, text(n.ChildByFieldName("name"), src))
	case kind == "method_invocation" || kind == "field_access" || kind == "method_reference":
		// Foo.bar() and Foo.BAR name the class Foo.
		obj := n.ChildByFieldName("object")
		if obj == nil && kind == "method_reference" {
			obj = n.NamedChild(0)
		}
		if obj != nil {
			switch obj.Kind() {
			case "identifier":
				if isUpper(text(obj, src)) {
					f.addRef(enclosing, text(obj, src))
				}
			case "field_access", "scoped_identifier":
				// p.Outer.VALUE: the object may be a qualified class name.
				f.addRef(enclosing, strings.Join(strings.Fields(text(obj, src)), ""))
			}
		}
	}
	children(n, func(c *sitter.Node) { j.walk(f, c, src, enclosing) })
}

func javaAbstract(n *sitter.Node, src []byte) bool {
	switch n.Kind() {
	case "interface_declaration", "annotation_type_declaration":
		return true
	}
	abstract := false
	children(n, func(c *sitter.Node) {
		if c.Kind() != "modifiers" {
			return
		}
		children(c, func(m *sitter.Node) {
			if m.Kind() == "abstract" || text(m, src) == "abstract" {
				abstract = true
			}
		})
	})
	return abstract
}

// resolve maps a raw Java type name to a class. Candidates are tried in
// order: single import, enclosing types, same package, wildcard imports and
// finally the name read as fully qualified.
func (javaFrontend) resolve(idx *index, f *fileFacts, ref reference, includeExternal bool) (model.Name, bool) {
	segs := strings.Split(ref.name, ".")
	head, nested := segs[0], strings.Join(segs[1:], "$")
	suffix := func(cls string) string {
		if nested == "" {
			return cls
		}
		return cls + "$" + nested
	}

	var imported []model.Name
	for _, imp := range f.imports {
		if imp.alias == head {
			for _, n := range qualifiedCandidates(imp.path) {
				imported = append(imported, model.Name{Package: n.Package, Class: suffix(n.Class)})
			}
			break
		}
	}

	candidates := append([]model.Name(nil), imported...)
	for outer := ref.from; outer != ""; outer = trimNested(outer) {
		candidates = append(candidates, model.Name{Package: f.pkg, Class: suffix(outer + "$" + head)})
	}
	candidates = append(candidates, model.Name{Package: f.pkg, Class: suffix(head)})
	for _, w := range f.wildcards {
		candidates = append(candidates, model.Name{Package: w, Class: suffix(head)})
		if i := strings.LastIndexByte(w, '.'); i > 0 {
			candidates = append(candidates, model.Name{Package: w[:i], Class: suffix(w[i+1:] + "$" + head)})
		}
	}
	if len(segs) > 1 {
		candidates = append(candidates, qualifiedCandidates(ref.name)...)
	}

	for _, n := range candidates {
		if idx.has(n) {
			return n, true
		}
	}

	if !includeExternal {
		return model.Name{}, false
	}
	switch {
	case len(imported) > 0:
		return imported[0], true
	case len(segs) > 1 && !isUpper(head):
		return model.ParseName(ref.name), true
	}
	return model.Name{}, false
}

// qualifiedCandidates splits a dotted name into every package/class split,
// innermost package first: a.b.C.D yields a.b.C/D, a.b/C$D, a/b$C$D.
func qualifiedCandidates(dotted string) []model.Name {
	segs := strings.Split(dotted, ".")
	out := make([]model.Name, 0, len(segs)-1)
	for i := len(segs) - 1; i >= 1; i-- {
		out = append(out, model.Name{
			Package: strings.Join(segs[:i], "."),
			Class:   strings.Join(segs[i:], "$"),
		})
	}
	return out
}

// trimNested drops the innermost segment of a binary class name.
func trimNested(name string) string {
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		return name[:i]
	}
	return ""
}
