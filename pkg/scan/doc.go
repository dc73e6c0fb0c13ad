// Package scan builds a package/class model from a source tree.
//
// # Overview
//
// A [Scanner] walks a directory, parses every source file of its language
// with tree-sitter and records declarations and references. Scanning runs in
// two phases:
//
//  1. Extract: files are parsed in parallel on a bounded worker pool. Each
//     parse borrows a parser of its own, so no tree-sitter state is shared.
//     The result is a list of per-file facts.
//  2. Merge: facts are merged into a [model.Model] on a single goroutine,
//     in file order. All declarations are registered first, then references
//     are resolved against the collected symbol table.
//
// # Languages
//
// Java: the package comes from the package declaration. Class, interface,
// enum, record and annotation declarations become classes; nested types are
// named Outer$Inner. Interfaces and annotations count as abstract, as do
// classes with the abstract modifier. References are resolved through single
// imports, enclosing types, the same package and wildcard imports, in that
// order. A package-info.java file gives its package a location.
//
// Go: the module path comes from go.mod and a package is its import path.
// Every type declaration is a class (interfaces are abstract). Top-level
// functions, variables and constants of a file belong to a unit class named
// after the file, e.g. "runner.go"; methods belong to their receiver type.
// Qualified references into module-local packages are resolved through the
// symbol table. A package's location is its doc.go, or its first file.
//
// References that resolve to nothing in the tree (standard library, third
// party code) are dropped unless [Options.IncludeExternal] is set.
//
// # Usage
//
//	s, err := scan.New(scan.LangJava, scan.Options{Workers: 8, Logger: logger})
//	if err != nil {
//	    return err
//	}
//	m, stats, err := s.Scan(ctx, "./src/main/java")
//
// [model.Model]: github.com/matzehuels/pkgcycle/pkg/model.Model
package scan
