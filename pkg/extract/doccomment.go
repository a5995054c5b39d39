package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// docComment is a parsed /** ... */ block.
type docComment struct {
	Text     string            // description with markup removed
	Params   map[string]string // @param name → text
	Examples []string          // <pre> blocks and multi-line {@code} snippets
}

var (
	blockTag  = regexp.MustCompile(`^@([A-Za-z]+)\s*(.*)$`)
	preBlock  = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	htmlTag   = regexp.MustCompile(`(?s)<[^>]+>`)
	spaceRuns = regexp.MustCompile(`\s+`)
)

// parseDocComment splits a javadoc block into description, @param texts and
// code examples. Unknown block tags (@return, @throws, @since ...) are
// dropped.
func parseDocComment(raw string) docComment {
	dc := docComment{Params: map[string]string{}}
	if raw == "" {
		return dc
	}

	var desc []string
	var tag, tagText string
	flush := func() {
		if tag != "param" {
			return
		}
		name, text, _ := strings.Cut(strings.TrimSpace(tagText), " ")
		name = strings.Trim(name, "<>")
		if name != "" {
			dc.Params[name] = normalizeSpace(inlineTags(text))
		}
	}
	for _, line := range docLines(raw) {
		if m := blockTag.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			tag, tagText = m[1], m[2]
			continue
		}
		if tag != "" {
			tagText += " " + line
			continue
		}
		desc = append(desc, line)
	}
	flush()

	body := strings.Join(desc, "\n")
	dc.Examples = examples(body)
	dc.Text = docText(body)
	return dc
}

// docLines strips the comment delimiters and the leading "*" gutter, keeping
// the indentation that follows it.
func docLines(raw string) []string {
	body := strings.TrimPrefix(strings.TrimSpace(raw), "/**")
	body = strings.TrimSuffix(body, "*/")
	lines := strings.Split(body, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimLeft(l, " \t")
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimPrefix(l, " ")
		out = append(out, strings.TrimRight(l, " \t\r"))
	}
	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

// examples collects <pre> blocks and multi-line {@code} snippets.
func examples(body string) []string {
	var out []string
	for _, m := range preBlock.FindAllStringSubmatch(body, -1) {
		code := trimBlankLines(m[1])
		if inner, ok := unwrapInlineTag(strings.TrimSpace(code), "code"); ok {
			code = inner
		}
		if code = trimBlankLines(html.UnescapeString(code)); code != "" {
			out = append(out, code)
		}
	}
	rest := preBlock.ReplaceAllString(body, "")
	for _, snippet := range findInlineTags(rest, "code") {
		if strings.Contains(snippet, "\n") {
			if code := trimBlankLines(snippet); code != "" {
				out = append(out, code)
			}
		}
	}
	return out
}

// docText renders description prose as plain text.
func docText(body string) string {
	body = preBlock.ReplaceAllString(body, " ")
	return normalizeSpace(html.UnescapeString(htmlTag.ReplaceAllString(inlineTags(body), " ")))
}

// inlineTags replaces {@code x}, {@link Foo#bar label} and similar inline
// tags with their visible text.
func inlineTags(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "{@")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := matchingBrace(s, i)
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		name, content, _ := strings.Cut(s[i+2:end], " ")
		content = strings.TrimSpace(content)
		switch name {
		case "link", "linkplain":
			// {@link Target label} shows the label when present.
			if _, label, ok := strings.Cut(content, " "); ok {
				content = strings.TrimSpace(label)
			}
			content = strings.ReplaceAll(content, "#", ".")
		}
		b.WriteString(content)
		s = s[end+1:]
	}
}

// findInlineTags returns the content of every {@name ...} tag in s.
func findInlineTags(s, name string) []string {
	var out []string
	prefix := "{@" + name
	for {
		i := strings.Index(s, prefix)
		if i < 0 {
			return out
		}
		end := matchingBrace(s, i)
		if end < 0 {
			return out
		}
		out = append(out, strings.TrimPrefix(s[i+len(prefix):end], " "))
		s = s[end+1:]
	}
}

func unwrapInlineTag(s, name string) (string, bool) {
	prefix := "{@" + name
	if !strings.HasPrefix(s, prefix) || matchingBrace(s, 0) != len(s)-1 {
		return "", false
	}
	return strings.TrimPrefix(s[len(prefix):len(s)-1], " "), true
}

// matchingBrace returns the index of the '}' closing the '{' at open, or -1.
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}
