package extract

import (
	"bytes"
	"path"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// javadocPage returns the archive path of a class's javadoc page:
// "org/acme/Widget.html" for org.acme.Widget.
func javadocPage(pkg, name string) string {
	if pkg == "" {
		return name + ".html"
	}
	return path.Join(strings.ReplaceAll(pkg, ".", "/"), name+".html")
}

// pageDescription extracts the class description from a javadoc page: the
// text of the first <div class="block">, or of the first <p> when the page
// has none. Entities are decoded and whitespace is collapsed.
func pageDescription(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	n := findElement(doc, func(n *html.Node) bool {
		return n.Data == "div" && hasClass(n, "block")
	})
	if n == nil {
		n = findElement(doc, func(n *html.Node) bool { return n.Data == "p" })
	}
	if n == nil {
		return ""
	}
	var b strings.Builder
	textContent(n, &b)
	return normalizeSpace(b.String())
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(c, b)
	}
	if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "br" || n.Data == "li") {
		b.WriteByte(' ')
	}
}
