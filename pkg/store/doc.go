// Package store is the persistent memoization layer shared by the resolver,
// the acquirer and the extractor.
//
// # Stores
//
// A [Store] holds five independent tables:
//
//   - manifests: parsed POMs keyed by absolute manifest path
//   - trees: resolved dependency sets keyed by root manifest path
//   - archives: extracted classes keyed by "groupId:artifactId:version"
//   - sidecars: source text keyed by [SidecarKey]
//   - docs: class documentation keyed by fully-qualified class name
//
// A present entry is always equivalent to recomputing it. After upstream data
// changes, callers must [Store.Clear] the cache to force recomputation.
//
// # Durable Layout
//
//	<dir>/manifests.json
//	<dir>/trees.json
//	<dir>/sidecars.json
//	<dir>/docs.json
//	<dir>/archives/index.json
//	<dir>/archives/<xxh3 of coordinate>.json
//
// Snapshots are loaded eagerly by [Open]. Writes are debounced: every Cache*
// call resets a timer and all dirty tables are flushed once the timer fires.
// [Store.Close] forces the final flush and must be called on shutdown.
package store
