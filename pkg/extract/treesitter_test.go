package extract

import (
	"reflect"
	"testing"

	"github.com/matzehuels/jarlens/pkg/javaapi"
)

func TestTreeSitterScanner_RoundTrip(t *testing.T) {
	c := javaapi.Stub("org.acme", "Widget")
	if err := (TreeSitterScanner{}).Scan(widgetSource, &c); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if c.Kind != "class" || !reflect.DeepEqual(c.Modifiers, []string{"public"}) {
		t.Errorf("Kind=%q Modifiers=%v", c.Kind, c.Modifiers)
	}
	if len(c.Methods) != 1 {
		t.Fatalf("got %d methods, want 1", len(c.Methods))
	}
	m := c.Methods[0]
	want := []javaapi.Parameter{
		{Name: "width", Type: "int", Description: "the new width in pixels"},
		{Name: "height", Type: "int", Description: "ignored"},
	}
	if m.Name != "resize" || m.ReturnType != "void" || !reflect.DeepEqual(m.Parameters, want) {
		t.Errorf("method = %+v", m)
	}
}

func TestTreeSitterScanner_MatchesLexical(t *testing.T) {
	lexical := scan(t, LexicalScanner{}, repositorySource, "Repository")
	parsed := scan(t, TreeSitterScanner{}, repositorySource, "Repository")

	if parsed.SuperClass != lexical.SuperClass {
		t.Errorf("SuperClass = %q, lexical %q", parsed.SuperClass, lexical.SuperClass)
	}
	if !reflect.DeepEqual(parsed.Interfaces, lexical.Interfaces) {
		t.Errorf("Interfaces = %v, lexical %v", parsed.Interfaces, lexical.Interfaces)
	}
	var names []string
	for _, m := range parsed.Methods {
		names = append(names, m.Name)
	}
	if want := []string{"Repository", "find", "stats", "handle"}; !reflect.DeepEqual(names, want) {
		t.Errorf("methods = %v, want %v", names, want)
	}
}
