package extract

import (
	"regexp"
	"strings"

	"github.com/matzehuels/jarlens/pkg/javaapi"
)

// Scanner fills a class from Java source text. The class arrives with its
// name, package and default modifiers set; a scanner that cannot find the
// type declaration leaves it unchanged.
type Scanner interface {
	Scan(src string, class *javaapi.Class) error
}

// LexicalScanner is the default pattern-based scanner. It needs no parser and
// tolerates incomplete code; see the package documentation for the shapes it
// recognises.
type LexicalScanner struct{}

var (
	typeHeader = regexp.MustCompile(`(?:^|[\s;}])((?:(?:public|protected|private|abstract|final|static|sealed|non-sealed|strictfp)\s+)*)(class|interface|enum|record|@interface)\s+([A-Za-z_$][\w$]*)`)
	nestedType = regexp.MustCompile(`(?:^|\s)(?:class|interface|enum|record|@interface)\s+[A-Za-z_$]`)
	annotation = regexp.MustCompile(`@[\w$.]+(?:\s*\((?:[^()]|\([^()]*\))*\))?`)
	identifier = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	typeName   = regexp.MustCompile(`^[A-Za-z_$][\w$.]*(?:\s*<.*>)?(?:\s*\[\s*\])*(?:\.\.\.)?$`)
)

var (
	typeModifiers   = set("public", "protected", "private", "abstract", "final", "static", "sealed", "non-sealed", "strictfp")
	methodModifiers = set("public", "protected", "private", "static", "abstract", "final", "synchronized", "native", "default", "strictfp")
	fieldModifiers  = set("public", "protected", "private", "static", "final", "volatile", "transient")
	notTypes        = set("return", "new", "throw", "else", "case", "package", "import", "assert", "yield")
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Scan implements [Scanner].
func (LexicalScanner) Scan(src string, class *javaapi.Class) error {
	code := mask(src, false)
	docs := mask(src, true)

	header, ok := findTypeHeader(code, class.Name)
	if !ok {
		return nil
	}
	open := strings.IndexByte(code[header.end:], '{')
	if open < 0 {
		return nil
	}
	open += header.end
	applyHeader(class, header, code[header.end:open])
	if doc := precedingDoc(docs[:header.start]); doc != "" {
		class.Documentation = parseDocComment(doc).Text
	}

	for _, m := range splitMembers(code, open) {
		doc := lastDoc(docs[m.start:m.end])
		decl := normalizeDecl(code[m.start:m.end])
		if decl == "" || nestedType.MatchString(decl) {
			continue
		}
		if method, ok := parseMethod(decl, class.Name); ok {
			if doc != "" {
				attachDoc(&method, parseDocComment(doc))
			}
			class.Methods = append(class.Methods, method)
			continue
		}
		if m.block {
			continue
		}
		if field, ok := parseField(decl); ok {
			if doc != "" {
				field.Documentation = parseDocComment(doc).Text
			}
			class.Fields = append(class.Fields, field)
		}
	}
	return nil
}

type headerMatch struct {
	start, end int
	modifiers  []string
	keyword    string
}

// findTypeHeader locates the declaration of the type called name, or the
// first type declaration in the file when none matches.
func findTypeHeader(code, name string) (headerMatch, bool) {
	var first *headerMatch
	for _, idx := range typeHeader.FindAllStringSubmatchIndex(code, -1) {
		h := headerMatch{
			start:     idx[2],
			end:       idx[1],
			modifiers: strings.Fields(code[idx[2]:idx[3]]),
			keyword:   code[idx[4]:idx[5]],
		}
		if code[idx[6]:idx[7]] == name {
			return h, true
		}
		if first == nil {
			first = &h
		}
	}
	if first == nil {
		return headerMatch{}, false
	}
	return *first, true
}

func applyHeader(class *javaapi.Class, h headerMatch, tail string) {
	var mods []string
	for _, m := range h.modifiers {
		if typeModifiers[m] {
			mods = append(mods, m)
		}
	}
	class.Modifiers = nonNil(mods)

	switch h.keyword {
	case "interface", "@interface":
		class.Kind = "interface"
		class.IsInterface = true
	case "enum":
		class.Kind = "enum"
	default:
		class.Kind = "class"
	}
	class.IsAbstract = class.IsInterface || javaapi.HasModifier(class.Modifiers, "abstract")

	tail = strings.TrimSpace(tail)
	if strings.HasPrefix(tail, "<") {
		if end := matchingAngle(tail, 0); end > 0 {
			tail = tail[end+1:]
		}
	}
	if strings.HasPrefix(strings.TrimSpace(tail), "(") {
		// record components
		t := strings.TrimSpace(tail)
		if end := matchingParen(t, 0); end > 0 {
			tail = t[end+1:]
		}
	}
	extends, implements := clause(tail, "extends"), clause(tail, "implements")
	if class.IsInterface {
		class.Interfaces = splitTopLevel(extends)
		return
	}
	if extends != "" {
		class.SuperClass = normalizeSpace(extends)
	}
	class.Interfaces = splitTopLevel(implements)
}

// clause returns the text following keyword up to the next clause keyword.
func clause(tail, keyword string) string {
	fields := strings.Fields(tail)
	var out []string
	in := false
	for _, f := range fields {
		switch f {
		case "extends", "implements", "permits":
			in = f == keyword
			continue
		}
		if in {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

type member struct {
	start, end int
	block      bool // declaration was followed by a { } body
}

// splitMembers cuts a type body into member declarations. Nested blocks
// (method bodies, initializers, nested types) are skipped, so only
// declarations at member level are returned.
func splitMembers(code string, open int) []member {
	var out []member
	start := open + 1
	for i := open + 1; i < len(code); i++ {
		switch code[i] {
		case '(':
			// annotation arguments and parameter lists may hold braces
			end := matchingParen(code, i)
			if end < 0 {
				return out
			}
			i = end
		case '{':
			end := matchingBrace(code, i)
			if end < 0 {
				return out
			}
			if hasTopLevelAssign(code[start:i]) {
				// initializer such as `int[] xs = {1, 2};` or a lambda
				i = end
				continue
			}
			out = append(out, member{start: start, end: i, block: true})
			i = end
			start = i + 1
		case '}':
			return out
		case ';':
			out = append(out, member{start: start, end: i})
			start = i + 1
		}
	}
	return out
}

func hasTopLevelAssign(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i+1 < len(s) && s[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.ContainsRune("!<>=", rune(s[i-1])) {
				continue
			}
			return true
		}
	}
	return false
}

// normalizeDecl removes annotations and collapses whitespace.
func normalizeDecl(decl string) string {
	return normalizeSpace(annotation.ReplaceAllString(decl, " "))
}

// parseMethod recognises
//
//	[modifiers] [<T>] ReturnType name(Type a, Type b) [throws X, Y]
//	[modifiers] ClassName(Type a)                       (constructor)
func parseMethod(decl, className string) (javaapi.Method, bool) {
	open := indexTopLevel(decl, '(')
	if open < 0 {
		return javaapi.Method{}, false
	}
	closeIdx := matchingParen(decl, open)
	if closeIdx < 0 {
		return javaapi.Method{}, false
	}

	mods, head := leadingModifiers(strings.TrimSpace(decl[:open]), methodModifiers)
	if strings.HasPrefix(head, "<") {
		end := matchingAngle(head, 0)
		if end < 0 {
			return javaapi.Method{}, false
		}
		head = strings.TrimSpace(head[end+1:])
	}
	ret, name := splitLast(head)
	if !identifier.MatchString(name) {
		return javaapi.Method{}, false
	}
	switch {
	case ret == "":
		if name != className {
			return javaapi.Method{}, false
		}
	case !typeName.MatchString(ret) || notTypes[ret]:
		return javaapi.Method{}, false
	}

	m := javaapi.Method{
		Name:       name,
		ReturnType: ret,
		Parameters: parseParams(decl[open+1 : closeIdx]),
		Modifiers:  nonNil(mods),
	}
	rest := strings.TrimSpace(decl[closeIdx+1:])
	if after, ok := strings.CutPrefix(rest, "throws "); ok {
		if i := strings.Index(after, " default "); i >= 0 {
			after = after[:i]
		}
		m.Exceptions = splitTopLevel(after)
	} else if rest != "" && !strings.HasPrefix(rest, "default") && !strings.HasPrefix(rest, "[") {
		return javaapi.Method{}, false
	}
	return m, true
}

// parseParams splits "final Map<K, V> m, String... rest" into parameters.
func parseParams(list string) []javaapi.Parameter {
	params := []javaapi.Parameter{}
	for _, p := range splitTopLevel(list) {
		_, p = leadingModifiers(p, set("final"))
		typ, name := splitLast(p)
		if typ == "" || name == "this" {
			continue
		}
		params = append(params, javaapi.Parameter{Name: name, Type: typ})
	}
	return params
}

// parseField recognises
//
//	[modifiers] Type name [= initializer]
//
// Only the first declarator of `int a, b;` is recorded.
func parseField(decl string) (javaapi.Field, bool) {
	if i := indexTopLevel(decl, '='); i >= 0 {
		decl = strings.TrimSpace(decl[:i])
	}
	if i := indexTopLevel(decl, ','); i >= 0 {
		decl = strings.TrimSpace(decl[:i])
	}
	mods, rest := leadingModifiers(decl, fieldModifiers)
	typ, name := splitLast(rest)
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		typ += "[]"
	}
	if typ == "" || !identifier.MatchString(name) || !typeName.MatchString(typ) || notTypes[typ] {
		return javaapi.Field{}, false
	}
	return javaapi.Field{Name: name, Type: typ, Modifiers: nonNil(mods)}, true
}

func attachDoc(m *javaapi.Method, dc docComment) {
	m.Documentation = dc.Text
	m.Examples = dc.Examples
	for i := range m.Parameters {
		if text, ok := dc.Params[m.Parameters[i].Name]; ok {
			m.Parameters[i].Description = text
		}
	}
}

// leadingModifiers consumes modifier keywords from the front of s.
func leadingModifiers(s string, allowed map[string]bool) ([]string, string) {
	var mods []string
	for {
		word, rest, _ := strings.Cut(s, " ")
		if !allowed[word] || rest == "" {
			return mods, s
		}
		mods = append(mods, word)
		s = strings.TrimSpace(rest)
	}
}

// splitLast splits "Map<K, V> name" into type and trailing identifier.
func splitLast(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexAny(s, " \t>]")
	if i < 0 {
		return "", s
	}
	if s[i] != ' ' && s[i] != '\t' {
		// "List<String>name" or "int[]name"
		return strings.TrimSpace(s[:i+1]), strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
}

// splitTopLevel splits on commas outside <>, () and [].
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if p := normalizeSpace(s[start:i]); p != "" {
					out = append(out, p)
				}
				start = i + 1
			}
		}
	}
	if p := normalizeSpace(s[start:]); p != "" {
		out = append(out, p)
	}
	return out
}

func indexTopLevel(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			if s[i] == c && depth == 0 {
				return i
			}
			depth++
		case '>', ')', ']':
			depth--
		default:
			if s[i] == c && depth == 0 {
				return i
			}
		}
	}
	return -1
}

func matchingParen(s string, open int) int { return matching(s, open, '(', ')') }
func matchingAngle(s string, open int) int { return matching(s, open, '<', '>') }

func matching(s string, open int, l, r byte) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case l:
			depth++
		case r:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// precedingDoc returns the javadoc block that directly precedes the end of
// s, allowing only whitespace and annotations in between.
func precedingDoc(s string) string {
	i := strings.LastIndex(s, "/**")
	if i < 0 {
		return ""
	}
	end := strings.Index(s[i:], "*/")
	if end < 0 {
		return ""
	}
	end += i + 2
	if normalizeDecl(s[end:]) != "" {
		return ""
	}
	return s[i:end]
}

// lastDoc returns the last javadoc block inside a member declaration.
func lastDoc(s string) string {
	i := strings.LastIndex(s, "/**")
	if i < 0 {
		return ""
	}
	end := strings.Index(s[i:], "*/")
	if end < 0 {
		return ""
	}
	return s[i : i+end+2]
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// mask blanks comments and literal contents so structural characters inside
// them are ignored. Positions are preserved. With keepDocs, /** */ blocks are
// left intact.
func mask(src string, keepDocs bool) string {
	b := []byte(src)
	blank := func(from, to int) {
		for i := from; i < to && i < len(b); i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	closeAt := func(from int, delim string) int {
		j := strings.Index(src[from:], delim)
		if j < 0 {
			return len(src)
		}
		return from + j + len(delim)
	}

	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			j := strings.IndexByte(src[i:], '\n')
			if j < 0 {
				j = len(src) - i
			}
			blank(i, i+j)
			i += j
		case strings.HasPrefix(src[i:], "/**") && !strings.HasPrefix(src[i:], "/**/"):
			end := closeAt(i+3, "*/")
			if !keepDocs {
				blank(i, end)
			}
			i = end
		case strings.HasPrefix(src[i:], "/*"):
			end := closeAt(i+2, "*/")
			blank(i, end)
			i = end
		case strings.HasPrefix(src[i:], `"""`):
			end := closeAt(i+3, `"""`)
			blank(i+3, end-3)
			i = end
		case src[i] == '"' || src[i] == '\'':
			q := src[i]
			j := i + 1
			for j < len(src) && src[j] != q && src[j] != '\n' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			blank(i+1, j)
			i = j + 1
		default:
			i++
		}
	}
	return string(b)
}
