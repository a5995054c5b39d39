package maven

import (
	"path/filepath"
	"strings"
)

// Artifact classifiers used for sidecar archives.
const (
	ClassifierNone    = ""
	ClassifierSources = "sources"
	ClassifierJavadoc = "javadoc"
)

// Artifact file extensions.
const (
	ExtJar = "jar"
	ExtPOM = "pom"
)

// DefaultRemoteRepository is Maven Central's repository root.
const DefaultRemoteRepository = "https://repo1.maven.org/maven2"

// ArtifactPath returns the slash-separated path of an artifact file relative
// to a repository root:
//
//	<groupId with '.' → '/'>/<artifactId>/<version>/<artifactId>-<version>[-<classifier>].<ext>
//
// The same path is used for local lookups and remote URLs, so existing local
// repositories are shared with Maven itself.
func ArtifactPath(c Coordinate, classifier, ext string) string {
	name := c.ArtifactID + "-" + c.Version
	if classifier != "" {
		name += "-" + classifier
	}
	return strings.ReplaceAll(c.GroupID, ".", "/") + "/" + c.ArtifactID + "/" + c.Version + "/" + name + "." + ext
}

// LocalPath joins [ArtifactPath] onto a local repository root.
func LocalPath(root string, c Coordinate, classifier, ext string) string {
	return filepath.Join(root, filepath.FromSlash(ArtifactPath(c, classifier, ext)))
}

// RemoteURL joins [ArtifactPath] onto a remote repository base URL.
func RemoteURL(base string, c Coordinate, classifier, ext string) string {
	return strings.TrimSuffix(base, "/") + "/" + ArtifactPath(c, classifier, ext)
}
