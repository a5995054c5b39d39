package maven

import (
	"testing"

	"github.com/matzehuels/jarlens/pkg/errors"
)

func TestParsePOM(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <groupId>com.example</groupId>
  <artifactId>my-app</artifactId>
  <version>1.0.0</version>
  <name>My App</name>

  <dependencies>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>5.3.0</version>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13</version>
      <scope>test</scope>
    </dependency>
    <dependency>
      <groupId>org.optional</groupId>
      <artifactId>optional-dep</artifactId>
      <version>2.0</version>
      <optional>true</optional>
    </dependency>
  </dependencies>
</project>`

	p, err := ParsePOM([]byte(content))
	if err != nil {
		t.Fatalf("ParsePOM failed: %v", err)
	}

	want := Coordinate{GroupID: "com.example", ArtifactID: "my-app", Version: "1.0.0"}
	if p.Coordinate != want {
		t.Errorf("Coordinate = %v, want %v", p.Coordinate, want)
	}
	if p.Name != "My App" {
		t.Errorf("Name = %q, want %q", p.Name, "My App")
	}
	if len(p.Dependencies) != 3 {
		t.Fatalf("got %d dependencies, want 3 (parser keeps every declaration)", len(p.Dependencies))
	}

	if got := p.Dependencies[0].String(); got != "org.springframework:spring-core:5.3.0" {
		t.Errorf("first dependency = %s", got)
	}
	if p.Dependencies[0].EffectiveScope() != ScopeCompile {
		t.Errorf("default scope = %q, want compile", p.Dependencies[0].EffectiveScope())
	}
	if !p.Dependencies[1].Excluded() {
		t.Error("test-scoped dependency should be Excluded()")
	}
	if !p.Dependencies[2].Optional {
		t.Error("optional flag not parsed")
	}
	if p.Parent != nil {
		t.Errorf("Parent = %v, want nil", p.Parent)
	}
	if missing := p.MissingFields(); len(missing) != 0 {
		t.Errorf("MissingFields() = %v, want none", missing)
	}
}

func TestParsePOM_ParentNotMerged(t *testing.T) {
	content := `<project>
  <parent>
    <groupId>org.parent</groupId>
    <artifactId>parent-pom</artifactId>
    <version>7</version>
  </parent>
  <artifactId>child</artifactId>
</project>`

	p, err := ParsePOM([]byte(content))
	if err != nil {
		t.Fatalf("ParsePOM failed: %v", err)
	}
	if p.Parent == nil || p.Parent.GroupID != "org.parent" || p.Parent.Version != "7" {
		t.Fatalf("Parent = %+v, want org.parent:parent-pom:7", p.Parent)
	}
	if p.GroupID != "" || p.Version != "" {
		t.Errorf("inherited fields must stay empty, got %s", p.Coordinate)
	}

	missing := p.MissingFields()
	if len(missing) != 2 || missing[0] != "groupId" || missing[1] != "version" {
		t.Errorf("MissingFields() = %v, want [groupId version]", missing)
	}
}

func TestParsePOM_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"unclosed", "<project><groupId>x</groupId>"},
		{"wrong root", "<settings><localRepository>/tmp</localRepository></settings>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePOM([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeManifestParse) {
				t.Errorf("error code = %v, want MANIFEST_PARSE", errors.GetCode(err))
			}
		})
	}
}
