// Package maven holds the Maven data model shared by every jarlens component.
//
// # Coordinates
//
// A [Coordinate] is the groupId:artifactId:version triple that keys
// dependencies, cache entries and repository paths. Coordinates are values;
// equality is exact field equality.
//
// # Manifests
//
// [ParsePOM] reads a pom.xml into a [Project]. Parent manifests are recorded
// but not merged, and properties are not interpolated:
//
//	project, err := maven.ParsePOM(data)
//	if missing := project.MissingFields(); len(missing) > 0 {
//	    // groupId/version would come from <parent>; they stay empty
//	}
//
// # Repository Layout
//
// [ArtifactPath], [LocalPath] and [RemoteURL] implement the standard layout
//
//	org/acme/widget/1.0/widget-1.0-sources.jar
//
// used for both local lookups and remote downloads.
//
// # Local Repository
//
// [ResolveLocalRepository] finds the local repository root from an explicit
// override, $MAVEN_REPO_LOCAL, settings.xml, or ~/.m2/repository.
package maven
