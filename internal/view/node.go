// Package view builds the page fragments as typed element descriptors and
// serialises them. Text and attribute values are always escaped on output,
// so server-provided strings never become markup.
package view

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Attr struct {
	Key string
	Val string
}

// Node is either an element (Tag set) or a text node (Tag empty).
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []Node
	Text     string
}

// Text returns a text node.
func Text(s string) Node {
	return Node{Text: s}
}

// El returns an element node.
func El(tag string, attrs []Attr, children ...Node) Node {
	return Node{Tag: tag, Attrs: attrs, Children: children}
}

// A is shorthand for building attribute lists from key/value pairs.
func A(kv ...string) []Attr {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("view.A: odd number of arguments (%d)", len(kv)))
	}
	attrs := make([]Attr, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		attrs = append(attrs, Attr{Key: kv[i], Val: kv[i+1]})
	}
	return attrs
}

func (n Node) IsText() bool {
	return n.Tag == ""
}

// Attr returns the value of the attribute key and whether it is present.
func (n Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n Node) htmlNode() *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, child := range n.Children {
		out.AppendChild(child.htmlNode())
	}
	return out
}

// Render writes nodes as HTML to w.
func Render(w io.Writer, nodes ...Node) error {
	for _, n := range nodes {
		if err := html.Render(w, n.htmlNode()); err != nil {
			return fmt.Errorf("render <%s>: %w", n.Tag, err)
		}
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(nodes ...Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, nodes...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText flattens nodes for terminal output: block elements start a new
// line, list items get a bullet, links and images show their target.
func PlainText(nodes ...Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writePlain(&b, n)
	}
	return strings.TrimSpace(collapseBlankLines(b.String()))
}

func writePlain(b *strings.Builder, n Node) {
	if n.IsText() {
		b.WriteString(n.Text)
		return
	}

	switch n.Tag {
	case "li":
		b.WriteString("\n  - ")
	case "h1", "h2", "h3", "h4", "p", "div", "ul", "ol":
		b.WriteString("\n")
	}

	for _, child := range n.Children {
		writePlain(b, child)
	}

	switch n.Tag {
	case "a":
		if href, ok := n.Attr("href"); ok {
			fmt.Fprintf(b, " <%s>", href)
		}
	case "img":
		if src, ok := n.Attr("src"); ok {
			b.WriteString(src)
		}
	case "input":
		if val, ok := n.Attr("value"); ok {
			fmt.Fprintf(b, "\n%s", val)
		}
	case "h1", "h2", "h3", "h4", "p", "div":
		b.WriteString("\n")
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimRight(line, " "))
	}
	return strings.Join(out, "\n")
}
