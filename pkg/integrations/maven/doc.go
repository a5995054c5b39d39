// Package maven provides an HTTP client for Maven 2 layout repositories.
//
// # Overview
//
// This package downloads POM manifests and jar archives from Maven Central
// (https://repo1.maven.org/maven2) or any mirror using the same layout.
//
// # Usage
//
//	client := maven.NewClient(maven.Options{Timeout: 30 * time.Second})
//
//	pom, err := client.FetchPOM(ctx, coord)
//	sources, err := client.FetchArchive(ctx, coord, "sources")
//
// # Errors
//
// A missing resource is reported with code NOT_FOUND_REMOTELY; every other
// failure (non-200 status, network error after retries) with REMOTE_FETCH.
// Coordinates that cannot form a safe URL fail with INVALID_COORDINATE
// before any request is made.
package maven
