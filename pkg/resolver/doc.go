// Package resolver turns a POM manifest into its flattened, deduplicated
// transitive dependency set.
//
// # Algorithm
//
// [Resolver.ResolveTree] walks dependencies depth-first in declaration order.
// A processed set keyed by coordinate is consulted before any expansion, so
// cyclic manifest graphs terminate and every coordinate appears at most once
// (first seen wins; no version mediation).
//
// Scope filtering happens in two tiers:
//
//   - top-level test and provided dependencies are included in the result
//     but never expanded
//   - transitive test and provided dependencies are dropped entirely
//
// Optional dependencies are skipped at every level. Analysis callers filter
// test and provided again before acquiring archives.
//
// # Child Manifests
//
// A dependency's own POM is read from the local repository layout first and
// fetched remotely otherwise; fetched POMs are written back to the local
// layout. A failure anywhere in a subtree abandons that subtree only.
//
// # Parent Manifests
//
// Parent inheritance is not implemented. Coordinate fields a manifest would
// inherit stay empty, the parent is recorded in [maven.Project.Parent] and a
// warning is logged. Dependencies whose version cannot be used (empty or an
// unresolved ${property}) are kept in the result but not expanded.
package resolver
