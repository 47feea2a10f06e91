// Package xmltree is the narrow accessor layer the VAST models read through.
// It hides the shape of the parsed document so that malformed or partial
// input is tolerated in one place.
package xmltree

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
)

var errNoRoot = errors.New("xml document has no root element")

// Node is a single element of a parsed document.
type Node interface {
	// Name is the element's local name, without namespace prefix.
	Name() string
	// KeyValue is the concatenated text and CDATA of the element's direct
	// children with surrounding whitespace trimmed.
	KeyValue() string
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
	// Child returns the first child element with the given name, or nil.
	Child(name string) Node
	// Children returns every child element with the given name in document order.
	Children(name string) []Node
	// Elements returns every child element in document order.
	Elements() []Node
	// Raw re-serializes the element as XML.
	Raw() string
}

type element struct {
	el *etree.Element
}

// Parse reads an XML document and returns its root element.
func Parse(data []byte) (Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return root(doc)
}

// ParseString is Parse for string input.
func ParseString(s string) (Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, err
	}
	return root(doc)
}

func root(doc *etree.Document) (Node, error) {
	r := doc.Root()
	if r == nil {
		return nil, errNoRoot
	}
	return &element{el: r}, nil
}

// FromElement wraps an already parsed etree element. A nil element yields a nil Node.
func FromElement(el *etree.Element) Node {
	if el == nil {
		return nil
	}
	return &element{el: el}
}

func (e *element) Name() string {
	return e.el.Tag
}

func (e *element) KeyValue() string {
	var sb strings.Builder
	for _, tok := range e.el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			sb.WriteString(cd.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

func (e *element) Attr(name string) (string, bool) {
	for _, a := range e.el.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) Child(name string) Node {
	for _, c := range e.el.ChildElements() {
		if strings.EqualFold(c.Tag, name) {
			return &element{el: c}
		}
	}
	return nil
}

func (e *element) Children(name string) []Node {
	var nodes []Node
	for _, c := range e.el.ChildElements() {
		if strings.EqualFold(c.Tag, name) {
			nodes = append(nodes, &element{el: c})
		}
	}
	return nodes
}

func (e *element) Elements() []Node {
	children := e.el.ChildElements()
	nodes := make([]Node, 0, len(children))
	for _, c := range children {
		nodes = append(nodes, &element{el: c})
	}
	return nodes
}

func (e *element) Raw() string {
	doc := etree.NewDocument()
	doc.SetRoot(e.el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// KeyValue returns n.KeyValue(), or "" for a nil node.
func KeyValue(n Node) string {
	if n == nil {
		return ""
	}
	return n.KeyValue()
}

// Attr returns n.Attr(name), or "", false for a nil node.
func Attr(n Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	return n.Attr(name)
}

// ChildValue is the KeyValue of the first child called name.
func ChildValue(n Node, name string) string {
	if n == nil {
		return ""
	}
	return KeyValue(n.Child(name))
}

// Child returns n.Child(name), or nil for a nil node.
func Child(n Node, name string) Node {
	if n == nil {
		return nil
	}
	return n.Child(name)
}

// Children returns n.Children(name), or nil for a nil node.
func Children(n Node, name string) []Node {
	if n == nil {
		return nil
	}
	return n.Children(name)
}

// ChildValues collects the non-empty KeyValue of every child called name.
func ChildValues(n Node, name string) []string {
	var values []string
	for _, c := range Children(n, name) {
		if v := c.KeyValue(); v != "" {
			values = append(values, v)
		}
	}
	return values
}
