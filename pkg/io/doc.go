// Package io provides JSON import and export for dependency models.
//
// # Overview
//
// This package serializes a [model.Model] of [model.Location] payloads to
// and from a simple JSON "facts" format. The format is designed for:
//
//   - Analyzing trees that pkgcycle cannot scan itself: any tool that can
//     list classes and their usages can produce facts
//   - Caching scanned models for faster re-analysis
//   - Round-trip preservation: export, import and export again identically
//
// # JSON Format
//
// The format has three top-level arrays:
//
//	{
//	  "packages": [
//	    {"name": "app.api", "location": {"path": "app/api/package-info.java", "line": 1}}
//	  ],
//	  "classes": [
//	    {"package": "app.api", "name": "Handler", "abstract": false,
//	     "location": {"path": "app/api/Handler.java", "line": 5}}
//	  ],
//	  "usages": [
//	    {"from": {"package": "app.api", "class": "Handler"},
//	     "to": {"package": "app.store", "class": "Repo"}}
//	  ]
//	}
//
// Names are given as package/class pairs rather than dotted strings, since
// Go package paths and file unit names ("store.go") contain dots.
//
// # Fields
//
// Packages are optional: a class implicitly creates its package. A package
// entry only adds its location. Locations are optional everywhere; an entity
// without one gets no payload, which matters for rules that need a place to
// report on.
//
// Usage endpoints do not need a class entry. A target that is not declared
// is created without a location, the same way a scanner records a usage of
// an external class.
//
// # Import
//
// Use [ImportJSON] to read a model from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	m, err := io.ImportJSON("facts.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions reject facts with empty class names and wrap the problem
// in [ErrInvalidFacts] with the index of the offending entry.
//
// # Export
//
// Use [ExportJSON] to write a model to a file, or [WriteJSON] to write to
// any io.Writer. Entries are written in model order (packages and classes by
// name, usages by source then target), so equal models export identically.
//
// [model.Model]: github.com/matzehuels/pkgcycle/pkg/model.Model
// [model.Location]: github.com/matzehuels/pkgcycle/pkg/model.Location
package io
