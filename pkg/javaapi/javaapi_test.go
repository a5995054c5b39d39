package javaapi

import "testing"

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		pkg, name, want string
	}{
		{"org.acme", "Widget", "org.acme.Widget"},
		{"", "Main", "Main"},
	}
	for _, tt := range tests {
		if got := QualifiedName(tt.pkg, tt.name); got != tt.want {
			t.Errorf("QualifiedName(%q, %q) = %q, want %q", tt.pkg, tt.name, got, tt.want)
		}
	}

	c := Class{Name: "Widget", Package: "org.acme"}
	if c.QualifiedName() != "org.acme.Widget" {
		t.Errorf("Class.QualifiedName() = %q", c.QualifiedName())
	}
}

func TestMethodSignature(t *testing.T) {
	m := Method{
		Name:       "resize",
		ReturnType: "Widget",
		Parameters: []Parameter{{Name: "width", Type: "int"}, {Name: "sizes", Type: "Map<String, Integer>"}},
	}
	if got := m.Signature(); got != "Widget resize(int width, Map<String, Integer> sizes)" {
		t.Errorf("Signature() = %q", got)
	}

	ctor := Method{Name: "Widget"}
	if got := ctor.Signature(); got != "Widget()" {
		t.Errorf("Signature() = %q", got)
	}
}

func TestStub(t *testing.T) {
	s := Stub("org.acme", "Widget")
	if s.Name != "Widget" || s.Package != "org.acme" {
		t.Errorf("Stub() = %+v", s)
	}
	if !HasModifier(s.Modifiers, "public") {
		t.Error("stub should carry the default public modifier")
	}
	if len(s.Methods) != 0 || len(s.Fields) != 0 {
		t.Error("stub should have no members")
	}
}
