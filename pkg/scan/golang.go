package scan

import (
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	"golang.org/x/mod/modfile"

	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

type goFrontend struct {
	module       string
	includeTests bool
	logger       *log.Logger
}

func (*goFrontend) grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_go.Language())
}

// prepare reads the module path from root/go.mod. Without a go.mod the
// directory name stands in for the module path.
func (g *goFrontend) prepare(root string) error {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if os.IsNotExist(err) {
		abs, absErr := filepath.Abs(root)
		if absErr != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, absErr, "resolve %s", root)
		}
		g.module = filepath.Base(abs)
		g.logger.Warn("no go.mod found, using directory name as module path", "module", g.module)
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "read go.mod")
	}
	f, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse go.mod")
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "go.mod in %s has no module directive", root)
	}
	g.module = f.Module.Mod.Path
	return nil
}

func (g *goFrontend) accept(rel string) bool {
	if !strings.HasSuffix(rel, ".go") {
		return false
	}
	return g.includeTests || !strings.HasSuffix(rel, "_test.go")
}

func (*goFrontend) locatePackages() bool { return true }

func (g *goFrontend) importPath(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		return g.module
	}
	return g.module + "/" + dir
}

func (g *goFrontend) local(importPath string) bool {
	return importPath == g.module || strings.HasPrefix(importPath, g.module+"/")
}

func (g *goFrontend) extract(rel string, src []byte, root *sitter.Node) *fileFacts {
	f := &fileFacts{
		path: rel,
		pkg:  g.importPath(rel),
		unit: path.Base(rel),
	}
	hasUnit := false

	namedChildren(root, func(n *sitter.Node) {
		switch n.Kind() {
		case "package_clause":
			f.pkgLine = line(n)
			f.pkgInfo = path.Base(rel) == "doc.go"
			namedChildren(n, func(c *sitter.Node) {
				if strings.HasSuffix(text(c, src), "_test") {
					f.pkg += "_test"
				}
			})
		case "import_declaration":
			goImports(f, n, src)
		case "type_declaration":
			namedChildren(n, func(spec *sitter.Node) {
				if spec.Kind() != "type_spec" && spec.Kind() != "type_alias" {
					return
				}
				name := text(spec.ChildByFieldName("name"), src)
				if name == "" {
					return
				}
				typ := spec.ChildByFieldName("type")
				abstract := typ != nil && typ.Kind() == "interface_type"
				f.classes = append(f.classes, classDecl{name: name, abstract: abstract, line: line(spec)})
				goRefs(f, spec.ChildByFieldName("type_parameters"), src, name)
				goRefs(f, typ, src, name)
			})
		case "function_declaration":
			hasUnit = true
			f.symbols = append(f.symbols, text(n.ChildByFieldName("name"), src))
			goRefs(f, n.ChildByFieldName("type_parameters"), src, f.unit)
			goRefs(f, n.ChildByFieldName("parameters"), src, f.unit)
			goRefs(f, n.ChildByFieldName("result"), src, f.unit)
			goRefs(f, n.ChildByFieldName("body"), src, f.unit)
		case "method_declaration":
			from := receiverType(n.ChildByFieldName("receiver"), src)
			if from == "" {
				hasUnit = true
				from = f.unit
			}
			goRefs(f, n.ChildByFieldName("parameters"), src, from)
			goRefs(f, n.ChildByFieldName("result"), src, from)
			goRefs(f, n.ChildByFieldName("body"), src, from)
		case "var_declaration", "const_declaration":
			hasUnit = true
			goValueSpecs(n, func(spec *sitter.Node) {
				children(spec, func(c *sitter.Node) {
					if c.Kind() == "identifier" {
						f.symbols = append(f.symbols, text(c, src))
						return
					}
					goRefs(f, c, src, f.unit)
				})
			})
		}
	})

	if hasUnit {
		f.classes = append(f.classes, classDecl{name: f.unit, line: 1})
	} else {
		f.unit = ""
		f.symbols = nil
	}
	return f
}

// goImports records the import specs of one import declaration.
func goImports(f *fileFacts, n *sitter.Node, src []byte) {
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Kind() {
		case "import_spec":
			p, err := strconv.Unquote(text(n.ChildByFieldName("path"), src))
			if err != nil || p == "" {
				return
			}
			alias := text(n.ChildByFieldName("name"), src)
			switch alias {
			case "_":
				return
			case ".":
				f.wildcards = append(f.wildcards, p)
				return
			}
			f.imports = append(f.imports, importSpec{alias: alias, path: p})
		default:
			namedChildren(n, visit)
		}
	}
	namedChildren(n, visit)
}

// goValueSpecs calls fn for every var_spec or const_spec below n.
func goValueSpecs(n *sitter.Node, fn func(spec *sitter.Node)) {
	namedChildren(n, func(c *sitter.Node) {
		switch c.Kind() {
		case "var_spec", "const_spec":
			fn(c)
		case "var_spec_list", "const_spec_list":
			goValueSpecs(c, fn)
		}
	})
}

// receiverType returns the base type name of a method receiver:
// "(s *Server)" and "(l List[T])" both yield the type name.
func receiverType(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "type_identifier" {
		return text(n, src)
	}
	var name string
	namedChildren(n, func(c *sitter.Node) {
		if name == "" && c.Kind() != "identifier" {
			name = receiverType(c, src)
		}
	})
	return name
}

// goRefs records the references made below n. Qualified references are
// kept as "alias.Name", unqualified ones as "Name".
func goRefs(f *fileFacts, n *sitter.Node, src []byte, from string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "qualified_type":
		f.addRef(from, text(n.ChildByFieldName("package"), src)+"."+text(n.ChildByFieldName("name"), src))
		return
	case "selector_expression":
		operand := n.ChildByFieldName("operand")
		field := text(n.ChildByFieldName("field"), src)
		if operand != nil && operand.Kind() == "identifier" && isUpper(field) {
			f.addRef(from, text(operand, src)+"."+field)
			return
		}
	case "type_identifier":
		f.addRef(from, text(n, src))
		return
	case "call_expression":
		if fn := n.ChildByFieldName("function"); fn != nil && fn.Kind() == "identifier" {
			f.addRef(from, text(fn, src))
		}
	}
	children(n, func(c *sitter.Node) { goRefs(f, c, src, from) })
}

// resolve maps "alias.Name" through the file imports and "Name" through
// the file package and its dot imports. Values resolve to their unit.
func (g *goFrontend) resolve(idx *index, f *fileFacts, ref reference, includeExternal bool) (model.Name, bool) {
	alias, name, qualified := strings.Cut(ref.name, ".")
	if !qualified {
		name = alias
		for _, pkg := range append([]string{f.pkg}, f.wildcards...) {
			if n, ok := g.lookup(idx, pkg, name); ok {
				return n, true
			}
		}
		return model.Name{}, false
	}

	for _, imp := range f.imports {
		if importAlias(imp) != alias {
			continue
		}
		if n, ok := g.lookup(idx, imp.path, name); ok {
			return n, true
		}
		if includeExternal && !g.local(imp.path) {
			return model.Name{Package: imp.path, Class: name}, true
		}
		return model.Name{}, false
	}
	return model.Name{}, false
}

func (g *goFrontend) lookup(idx *index, pkg, name string) (model.Name, bool) {
	n := model.Name{Package: pkg, Class: name}
	if idx.has(n) {
		return n, true
	}
	if unit, ok := idx.symbols[n]; ok && unit != "" {
		return model.Name{Package: pkg, Class: unit}, true
	}
	return model.Name{}, false
}

// importAlias is the name an import is referred to by: its explicit alias,
// or the last path element with a major version suffix removed.
func importAlias(imp importSpec) string {
	if imp.alias != "" {
		return imp.alias
	}
	elems := strings.Split(imp.path, "/")
	last := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(last) {
		last = elems[len(elems)-2]
	}
	if i := strings.Index(last, ".v"); i > 0 && isMajorVersion(last[i+1:]) {
		last = last[:i]
	}
	return strings.TrimPrefix(last, "go-")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
