// Package pkg provides the core libraries of jarlens.
//
// # Overview
//
// jarlens turns a project's pom.xml into structured API metadata for every
// dependency it pulls in. The pkg directory is organized by pipeline stage:
//
//  1. [resolver] - Transitive dependency resolution over POM manifests
//  2. [acquire] - Local-first artifact acquisition with operator decisions
//  3. [extract] - Class, method and field extraction from jars
//  4. [store] - Persistent memoization of every stage
//  5. [pipeline] - Orchestration (resolve → acquire → extract)
//
// Supporting packages: [maven] (coordinates, POM parsing, repository
// layout), [javaapi] (the extracted model), [integrations] (remote
// repository clients), [config], [errors] and [observability].
//
// # Architecture
//
//	pom.xml
//	   ↓
//	[resolver] (ordered, deduplicated []maven.Dependency)
//	   ↓
//	[acquire] (local repository → prompt → download)
//	   ↓
//	[extract] (jar + sources/javadoc sidecars → []javaapi.Class)
//	   ↓
//	JSON report
//
// [store] sits beside every stage: manifests and trees are cached by path,
// extracted classes by coordinate, sidecar text and javadoc by entry.
//
// # Quick Start
//
//	st, _ := store.Open(dir, store.Options{})
//	defer st.Close()
//
//	remote := maven.NewClient(maven.Options{})
//	runner := pipeline.NewRunner(pipeline.Options{
//	    Resolver:  resolver.New(resolver.Options{LocalRepository: repo, Remote: remote, Cache: st}),
//	    Acquirer:  acquire.New(acquire.Options{LocalRepository: repo, Remote: remote}),
//	    Extractor: extract.New(extract.Options{Cache: st}),
//	    Cache:     st,
//	})
//	report, err := runner.Analyze(ctx, "pom.xml")
//
// [resolver]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/resolver
// [acquire]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/acquire
// [extract]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/extract
// [store]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/pipeline
// [maven]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/maven
// [javaapi]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/javaapi
// [integrations]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/integrations
// [config]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/jarlens/pkg/observability
package pkg
