// Package directives binds behavior to HTML elements by attribute name.
//
// A directive is a LinkFunc that runs once per element it is attached to.
// Compile walks an HTML document, and for every element carrying a
// registered attribute (either "name" or "data-name") calls the LinkFunc
// exactly once with that element.
package directives

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Element is the part of a bound element a LinkFunc may touch
type Element interface {
	// SetText replaces all children of the element with a single text node
	SetText(text string)
	// Attr returns the value of an attribute and whether it is present
	Attr(name string) (string, bool)
}

// LinkFunc is called once per bound element
type LinkFunc func(el Element)

// Registry maps attribute names to directives. Register everything before the
// first Compile; Compile itself only reads.
type Registry struct {
	links map[string]LinkFunc
}

func NewRegistry() *Registry {
	return &Registry{links: make(map[string]LinkFunc)}
}

// Register adds a directive under its attribute name. Camel case names are
// accepted and converted: "appVersion" registers "app-version".
func (r *Registry) Register(name string, link LinkFunc) error {
	attr := AttrName(name)
	if attr == "" {
		return fmt.Errorf("directive name must not be empty")
	}
	if link == nil {
		return fmt.Errorf("directive %q has no link function", attr)
	}
	if _, exists := r.links[attr]; exists {
		return fmt.Errorf("directive %q already registered", attr)
	}
	r.links[attr] = link
	return nil
}

// Names returns the registered attribute names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.links))
	for n := range r.links {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Compile parses an HTML document from src, binds all directives and writes
// the rendered document to dst. It returns the number of bindings made.
func (r *Registry) Compile(dst io.Writer, src io.Reader) (int, error) {
	doc, err := html.Parse(src)
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}
	n := r.Bind(doc)
	if err := html.Render(dst, doc); err != nil {
		return n, fmt.Errorf("render html: %w", err)
	}
	return n, nil
}

// Bind walks the tree below root and links every matching element once.
// Matches are collected before any LinkFunc runs, so children a LinkFunc
// creates or removes do not affect which elements get bound.
func (r *Registry) Bind(root *html.Node) int {
	type binding struct {
		node *html.Node
		link LinkFunc
	}
	var bindings []binding
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			var seen map[string]bool
			for _, a := range n.Attr {
				name := strings.TrimPrefix(a.Key, "data-")
				link, ok := r.links[name]
				if !ok || seen[name] {
					continue
				}
				if seen == nil {
					seen = make(map[string]bool)
				}
				seen[name] = true
				bindings = append(bindings, binding{node: n, link: link})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, b := range bindings {
		b.link(&nodeElement{node: b.node})
	}
	return len(bindings)
}

// AttrName converts a directive name to its attribute form: "appVersion" -> "app-version"
func AttrName(name string) string {
	var b strings.Builder
	for i, c := range strings.TrimSpace(name) {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			c += 'a' - 'A'
		}
		b.WriteRune(c)
	}
	return b.String()
}

// nodeElement adapts an html.Node to Element
type nodeElement struct {
	node *html.Node
}

func (e *nodeElement) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *nodeElement) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
