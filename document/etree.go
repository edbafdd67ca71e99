package document

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

func parseEtree(r io.Reader) (Node, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("decoding xml: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("decoding xml: no elements")
	}
	return element{e: &doc.Element, document: true}, nil
}

type element struct {
	e        *etree.Element
	document bool
}

func matches(e *etree.Element, selector string) bool {
	return selector == "*" || strings.EqualFold(e.Tag, selector)
}

func (n element) Find(selector string) (Node, bool) {
	var found *etree.Element
	walk(n.e, func(e *etree.Element) bool {
		if matches(e, selector) {
			found = e
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return element{e: found}, true
}

func (n element) FindAll(selector string) []Node {
	var out []Node
	walk(n.e, func(e *etree.Element) bool {
		if matches(e, selector) {
			out = append(out, element{e: e})
		}
		return true
	})
	return out
}

// walk visits the descendants of e in document order until visit returns false.
func walk(e *etree.Element, visit func(*etree.Element) bool) bool {
	for _, child := range e.ChildElements() {
		if !visit(child) || !walk(child, visit) {
			return false
		}
	}
	return true
}

func (n element) Children(tag string) []Node {
	var out []Node
	for _, child := range n.e.ChildElements() {
		if matches(child, tag) {
			out = append(out, element{e: child})
		}
	}
	return out
}

func (n element) Attr(name string) (string, bool) {
	a := n.e.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func (n element) Text() string {
	var sb strings.Builder
	text(n.e, &sb)
	return sb.String()
}

func text(e *etree.Element, sb *strings.Builder) {
	for _, token := range e.Child {
		switch t := token.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			text(t, sb)
		}
	}
}

func (n element) Tag() string {
	if n.document {
		return ""
	}
	return strings.ToLower(n.e.Tag)
}
