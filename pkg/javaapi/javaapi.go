// Package javaapi defines the normalized API model extracted from Java
// archives: classes with their methods and fields.
//
// Values are built once by the extractor and never mutated afterwards.
// Methods and fields are owned by their class; there are no back-references,
// so a Class marshals to JSON as a self-contained tree.
package javaapi

import "strings"

// Class describes one top-level Java type.
type Class struct {
	Name          string   `json:"name"`
	Package       string   `json:"package"`
	IsInterface   bool     `json:"isInterface"`
	IsAbstract    bool     `json:"isAbstract"`
	Kind          string   `json:"kind,omitempty"` // "class", "interface" or "enum"
	Modifiers     []string `json:"modifiers"`
	Methods       []Method `json:"methods"`
	Fields        []Field  `json:"fields"`
	SuperClass    string   `json:"superClass,omitempty"`
	Interfaces    []string `json:"interfaces,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
}

// QualifiedName returns the fully-qualified class name, e.g. "org.acme.Widget".
func (c *Class) QualifiedName() string {
	return QualifiedName(c.Package, c.Name)
}

// Method describes a method or constructor declaration.
type Method struct {
	Name          string      `json:"name"`
	ReturnType    string      `json:"returnType"`
	Parameters    []Parameter `json:"parameters"`
	Modifiers     []string    `json:"modifiers"`
	Exceptions    []string    `json:"exceptions,omitempty"`
	Documentation string      `json:"documentation,omitempty"`
	Examples      []string    `json:"examples,omitempty"`
}

// Signature renders the method as "ReturnType name(Type a, Type b)".
func (m *Method) Signature() string {
	var b strings.Builder
	if m.ReturnType != "" {
		b.WriteString(m.ReturnType)
		b.WriteByte(' ')
	}
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type)
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Parameter is one formal parameter of a method.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Field describes a field declaration.
type Field struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Modifiers     []string `json:"modifiers"`
	Documentation string   `json:"documentation,omitempty"`
}

// QualifiedName joins a package and a simple name with a dot. Classes in the
// default package have no prefix.
func QualifiedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// Stub returns the metadata used when no source text is available for a
// compiled class: name, package and default modifiers only.
func Stub(pkg, name string) Class {
	return Class{
		Name:      name,
		Package:   pkg,
		Kind:      "class",
		Modifiers: []string{"public"},
		Methods:   []Method{},
		Fields:    []Field{},
	}
}

// HasModifier reports whether mods contains m.
func HasModifier(mods []string, m string) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}
