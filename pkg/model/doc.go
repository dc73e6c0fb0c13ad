// Package model holds the package/class dependency graph that every analysis
// in pkgcycle runs on.
//
// # Overview
//
// A [Model] owns a set of packages ordered by name. Each [Package] owns an
// ordered set of classes. Classes record which other classes they use; from
// those class-level edges the model derives package-level edges, so that
// package A uses package B exactly when some class in A uses some class in B
// and A differs from B.
//
// Entities are addressed by stable keys (package name, or a [Name] pair for
// classes). Edges are stored as key sets on both endpoints, so every "uses"
// entry has a matching "used by" entry on the other side.
//
// # Building a Model
//
// Creation is get-or-create. Referencing a package or class that does not
// exist yet materializes it without a payload:
//
//	m := model.New[model.Location]()
//	svc := m.AddClass("app.service.OrderService", false, model.Location{Path: "OrderService.java", Line: 3})
//	svc.AddUsage("app.repo.OrderRepository") // creates app.repo and the class
//
// [Model.AddClass] and [Model.AddPackage] overwrite the payload and abstract
// flag of an existing entity; the last call wins. Usage of a class by itself
// is a no-op, and usage within one package never produces a package edge.
// None of the operations can fail.
//
// # Payloads
//
// The type parameter E is an opaque payload attached to packages and classes
// by whoever builds the model. Scanners attach a [Location]. A payload is
// unset until it is registered; [Package.External] and [Class.External]
// report whether it is set.
//
// # Reading
//
// All accessors return freshly allocated slices sorted by name. Mutating a
// returned slice never changes the model.
//
// # Concurrency
//
// A Model is not safe for concurrent mutation. Build it from a single
// goroutine (scanners merge their per-file results single-threaded), then
// share it read-only.
package model
