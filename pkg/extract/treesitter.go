package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/matzehuels/jarlens/pkg/javaapi"
)

// TreeSitterScanner parses source with the tree-sitter Java grammar. It
// copes with constructs the lexical scanner may misread, such as nested
// generics in multi-line signatures. It requires cgo.
type TreeSitterScanner struct{}

var typeDeclarations = map[string]string{
	"class_declaration":           "class",
	"record_declaration":          "class",
	"interface_declaration":       "interface",
	"annotation_type_declaration": "interface",
	"enum_declaration":            "enum",
}

// Scan implements [Scanner].
func (TreeSitterScanner) Scan(src string, class *javaapi.Class) error {
	source := []byte(src)
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return fmt.Errorf("parse %s: %w", class.Name, err)
	}

	decl := findTypeDeclaration(tree.RootNode(), source, class.Name)
	if decl == nil {
		return nil
	}
	applyTypeNode(class, decl, source)

	body := decl.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for _, member := range bodyMembers(body) {
		switch member.Type() {
		case "method_declaration", "constructor_declaration", "annotation_type_element_declaration":
			class.Methods = append(class.Methods, methodNode(member, source))
		case "field_declaration", "constant_declaration":
			if f, ok := fieldNode(member, source); ok {
				class.Fields = append(class.Fields, f)
			}
		}
	}
	return nil
}

// findTypeDeclaration returns the top-level type named name, or the first
// top-level type when none matches.
func findTypeDeclaration(root *sitter.Node, source []byte, name string) *sitter.Node {
	var first *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if _, ok := typeDeclarations[n.Type()]; !ok {
			continue
		}
		if nameNode := n.ChildByFieldName("name"); nameNode != nil && nameNode.Content(source) == name {
			return n
		}
		if first == nil {
			first = n
		}
	}
	return first
}

func applyTypeNode(class *javaapi.Class, n *sitter.Node, source []byte) {
	class.Kind = typeDeclarations[n.Type()]
	class.IsInterface = class.Kind == "interface"
	class.Modifiers = modifiersOf(n, source)
	class.IsAbstract = class.IsInterface || javaapi.HasModifier(class.Modifiers, "abstract")
	if doc := docBefore(n, source); doc != "" {
		class.Documentation = parseDocComment(doc).Text
	}

	if sc := n.ChildByFieldName("superclass"); sc != nil && sc.NamedChildCount() > 0 {
		class.SuperClass = normalizeSpace(sc.NamedChild(0).Content(source))
	}
	if ifaces := n.ChildByFieldName("interfaces"); ifaces != nil {
		class.Interfaces = typeList(ifaces, source)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "extends_interfaces" {
			class.Interfaces = typeList(c, source)
		}
	}
}

// bodyMembers lists member declarations of a class, interface or enum body.
func bodyMembers(body *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() == "enum_body_declarations" {
			out = append(out, bodyMembers(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func methodNode(n *sitter.Node, source []byte) javaapi.Method {
	m := javaapi.Method{
		Parameters: []javaapi.Parameter{},
		Modifiers:  modifiersOf(n, source),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		m.Name = name.Content(source)
	}
	if typ := n.ChildByFieldName("type"); typ != nil {
		m.ReturnType = normalizeSpace(typ.Content(source))
		if dims := n.ChildByFieldName("dimensions"); dims != nil {
			m.ReturnType += strings.ReplaceAll(dims.Content(source), " ", "")
		}
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			if p, ok := parameterNode(params.NamedChild(i), source); ok {
				m.Parameters = append(m.Parameters, p)
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "throws" {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				m.Exceptions = append(m.Exceptions, normalizeSpace(c.NamedChild(j).Content(source)))
			}
		}
	}
	if doc := docBefore(n, source); doc != "" {
		attachDoc(&m, parseDocComment(doc))
	}
	return m
}

func parameterNode(n *sitter.Node, source []byte) (javaapi.Parameter, bool) {
	switch n.Type() {
	case "formal_parameter":
		typ, name := n.ChildByFieldName("type"), n.ChildByFieldName("name")
		if typ == nil || name == nil {
			return javaapi.Parameter{}, false
		}
		t := normalizeSpace(typ.Content(source))
		if dims := n.ChildByFieldName("dimensions"); dims != nil {
			t += strings.ReplaceAll(dims.Content(source), " ", "")
		}
		return javaapi.Parameter{Name: name.Content(source), Type: t}, true
	case "spread_parameter":
		var typ, name string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch {
			case c.Type() == "variable_declarator":
				if nn := c.ChildByFieldName("name"); nn != nil {
					name = nn.Content(source)
				}
			case c.Type() != "modifiers" && typ == "":
				typ = normalizeSpace(c.Content(source))
			}
		}
		if typ == "" || name == "" {
			return javaapi.Parameter{}, false
		}
		return javaapi.Parameter{Name: name, Type: typ + "..."}, true
	}
	return javaapi.Parameter{}, false
}

func fieldNode(n *sitter.Node, source []byte) (javaapi.Field, bool) {
	typ := n.ChildByFieldName("type")
	decl := n.ChildByFieldName("declarator")
	if typ == nil || decl == nil {
		return javaapi.Field{}, false
	}
	name := decl.ChildByFieldName("name")
	if name == nil {
		return javaapi.Field{}, false
	}
	f := javaapi.Field{
		Name:      name.Content(source),
		Type:      normalizeSpace(typ.Content(source)),
		Modifiers: modifiersOf(n, source),
	}
	if doc := docBefore(n, source); doc != "" {
		f.Documentation = parseDocComment(doc).Text
	}
	return f, true
}

// modifiersOf returns the keyword modifiers of a declaration, without
// annotations.
func modifiersOf(n *sitter.Node, source []byte) []string {
	mods := []string{}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(c.ChildCount()); j++ {
			if k := c.Child(j); !k.IsNamed() {
				mods = append(mods, k.Content(source))
			}
		}
	}
	return mods
}

// docBefore returns the /** */ comment directly preceding n.
func docBefore(n *sitter.Node, source []byte) string {
	prev := n.PrevSibling()
	if prev == nil {
		return ""
	}
	switch prev.Type() {
	case "comment", "block_comment":
		if text := prev.Content(source); strings.HasPrefix(text, "/**") {
			return text
		}
	}
	return ""
}

func typeList(n *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "type_list" {
			return typeList(c, source)
		}
		out = append(out, normalizeSpace(c.Content(source)))
	}
	return out
}
