// Package document reads XML into a tree the format adapters can query without knowing which
// parser produced it.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Node is an element (or the document itself) of a parsed XML tree. Tag names compare case
// insensitively and are reported in lower case.
type Node interface {
	// Find returns the first descendant matching selector, in document order.
	Find(selector string) (Node, bool)
	// FindAll returns every descendant matching selector, in document order.
	FindAll(selector string) []Node
	// Children returns the direct child elements with the given tag.
	Children(tag string) []Node
	// Attr looks up an attribute by name.
	Attr(name string) (string, bool)
	// Text is the concatenated text content of the node and its descendants.
	Text() string
	// Tag is the lower cased local name of the element, empty for the document.
	Tag() string
}

// Backend names a parser implementation.
type Backend string

const (
	// Goquery supports full CSS selectors.
	Goquery Backend = "goquery"
	// Etree supports selectors made of a single tag name or "*".
	Etree Backend = "etree"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case Goquery, Etree:
		return b, nil
	case "":
		return Goquery, nil
	default:
		return "", fmt.Errorf("unknown parser %q", s)
	}
}

// Parse reads a document with the goquery backend.
func Parse(r io.Reader) (Node, error) {
	return ParseWith(Goquery, r)
}

func ParseWith(b Backend, r io.Reader) (Node, error) {
	switch b {
	case Goquery, "":
		return parseGoquery(r)
	case Etree:
		return parseEtree(r)
	default:
		return nil, fmt.Errorf("unknown parser %q", b)
	}
}

// Load reads and parses an XML file.
func Load(b Backend, fpath string) (Node, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", fpath, err)
	}
	n, err := ParseWith(b, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", fpath, err)
	}
	return n, nil
}
