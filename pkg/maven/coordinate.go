package maven

import (
	"fmt"
	"strings"

	"github.com/matzehuels/jarlens/pkg/errors"
)

// Dependency scopes recognised by the resolver. An empty scope means compile.
const (
	ScopeCompile  = "compile"
	ScopeTest     = "test"
	ScopeProvided = "provided"
	ScopeRuntime  = "runtime"
	ScopeSystem   = "system"
)

// Coordinate identifies an artifact by groupId, artifactId and version.
//
// Coordinates are plain values: two coordinates are equal iff all three
// fields match exactly. No version-range normalization is applied.
type Coordinate struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
}

// String returns the "groupId:artifactId:version" form.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// Validate reports whether the coordinate can be mapped onto a repository
// path. Empty fields and unresolved ${...} properties are rejected.
func (c Coordinate) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"groupId", c.GroupID},
		{"artifactId", c.ArtifactID},
		{"version", c.Version},
	} {
		if err := errors.ValidateCoordinatePart(f.name, f.value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "%s", c)
		}
	}
	return nil
}

// ParseCoordinate parses "groupId:artifactId:version".
// Extended forms with packaging or classifier are not accepted.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"invalid maven coordinate %q (expected groupId:artifactId:version)", s)
	}
	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Dependency is a coordinate declared in a manifest together with its scope
// and optional flag.
type Dependency struct {
	Coordinate
	Scope    string `json:"scope,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// EffectiveScope returns the declared scope, or compile when none is set.
func (d Dependency) EffectiveScope() string {
	if d.Scope == "" {
		return ScopeCompile
	}
	return d.Scope
}

// Excluded reports whether the dependency's scope stops transitive
// propagation and analysis (test and provided).
func (d Dependency) Excluded() bool {
	s := d.EffectiveScope()
	return s == ScopeTest || s == ScopeProvided
}

// Project is a parsed manifest: its own coordinate plus the ordered list of
// declared dependencies.
type Project struct {
	Coordinate
	// Parent is the declared parent manifest, if any. Parent values are
	// recorded but never merged into the project.
	Parent       *Coordinate  `json:"parent,omitempty"`
	Name         string       `json:"name,omitempty"`
	Description  string       `json:"description,omitempty"`
	Dependencies []Dependency `json:"dependencies"`
}

// MissingFields lists the root coordinate fields that are empty, typically
// because they would be inherited from a parent manifest.
func (p *Project) MissingFields() []string {
	var missing []string
	if p.GroupID == "" {
		missing = append(missing, "groupId")
	}
	if p.ArtifactID == "" {
		missing = append(missing, "artifactId")
	}
	if p.Version == "" {
		missing = append(missing, "version")
	}
	return missing
}

// Describe formats a dependency for log lines, e.g. "junit:junit:4.13 (test)".
func Describe(d Dependency) string {
	if d.Scope == "" || d.Scope == ScopeCompile {
		return d.String()
	}
	return fmt.Sprintf("%s (%s)", d.String(), d.Scope)
}
