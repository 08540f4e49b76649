package staticengine

import (
	"strings"

	"golang.org/x/net/html"
)

// innerText approximates HTMLElement.innerText for an unrendered tree: hidden
// and non-content elements are skipped, block elements break lines and runs
// of whitespace collapse.
func innerText(n *html.Node) string {
	var b strings.Builder
	if n.Type == html.ElementNode && isSkippedElement(strings.ToLower(n.Data)) {
		// asked for directly, e.g. "title"
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(c, &b)
		}
	} else {
		writeText(n, &b)
	}

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func writeText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if isSkippedElement(tag) || isHidden(n) {
			return
		}
		if tag == "br" {
			b.WriteString("\n")
			return
		}
		if isBlockElement(tag) {
			b.WriteString("\n")
			defer b.WriteString("\n")
		} else if tag == "td" || tag == "th" {
			defer b.WriteString("\t")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, b)
	}
}

func isSkippedElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "head", "title", "iframe", "object", "embed", "svg":
		return true
	}
	return false
}

func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

func isBlockElement(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "dd", "details", "div", "dl", "dt",
		"fieldset", "figcaption", "figure", "footer", "form", "h1", "h2", "h3", "h4", "h5",
		"h6", "header", "hr", "li", "main", "nav", "ol", "p", "pre", "section", "summary",
		"table", "tr", "ul", "body", "html":
		return true
	}
	return false
}
