package maven

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/matzehuels/jarlens/pkg/errors"
)

// ParsePOM decodes a pom.xml document into a Project.
//
// Only the root coordinate, the parent reference, name/description and the
// <dependencies> list are read. <dependencyManagement>, profiles and
// properties are ignored, and no inheritance from <parent> is applied: fields
// missing at the root stay empty (see [Project.MissingFields]).
//
// Malformed XML yields an error with code MANIFEST_PARSE.
func ParsePOM(data []byte) (*Project, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeManifestParse, "empty manifest")
	}

	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "malformed manifest")
	}

	p := &Project{
		Coordinate: Coordinate{
			GroupID:    strings.TrimSpace(pom.GroupID),
			ArtifactID: strings.TrimSpace(pom.ArtifactID),
			Version:    strings.TrimSpace(pom.Version),
		},
		Name:         strings.TrimSpace(pom.Name),
		Description:  strings.TrimSpace(pom.Description),
		Dependencies: extractDependencies(&pom),
	}
	if pom.Parent != nil {
		p.Parent = &Coordinate{
			GroupID:    strings.TrimSpace(pom.Parent.GroupID),
			ArtifactID: strings.TrimSpace(pom.Parent.ArtifactID),
			Version:    strings.TrimSpace(pom.Parent.Version),
		}
	}
	return p, nil
}

// extractDependencies keeps every declared dependency, in order. Scope and
// optional filtering is the resolver's job, so nothing is dropped here.
func extractDependencies(pom *pomProject) []Dependency {
	deps := make([]Dependency, 0, len(pom.Dependencies))
	for _, d := range pom.Dependencies {
		deps = append(deps, Dependency{
			Coordinate: Coordinate{
				GroupID:    strings.TrimSpace(d.GroupID),
				ArtifactID: strings.TrimSpace(d.ArtifactID),
				Version:    strings.TrimSpace(d.Version),
			},
			Scope:    strings.TrimSpace(d.Scope),
			Optional: strings.EqualFold(strings.TrimSpace(d.Optional), "true"),
		})
	}
	return deps
}

type pomProject struct {
	XMLName      xml.Name        `xml:"project"`
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Name         string          `xml:"name"`
	Description  string          `xml:"description"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Parent       *pomParent      `xml:"parent"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}
