package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// parseGoquery builds an html.Node tree straight from the XML tokens rather than running the
// HTML parser, which would re-nest self closing elements such as <Position lat=".." lng=".."/>.
func parseGoquery(r io.Reader) (Node, error) {
	root, err := decodeTree(r)
	if err != nil {
		return nil, err
	}
	return selection{goquery.NewDocumentFromNode(root).Selection}, nil
}

func decodeTree(r io.Reader) (*html.Node, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	root := &html.Node{Type: html.DocumentNode}
	current := root
	var elements int
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			n := &html.Node{
				Type: html.ElementNode,
				Data: strings.ToLower(t.Name.Local),
			}
			for _, a := range t.Attr {
				n.Attr = append(n.Attr, html.Attribute{Namespace: a.Name.Space, Key: a.Name.Local, Val: a.Value})
			}
			current.AppendChild(n)
			current = n
			elements++
		case xml.EndElement:
			current = current.Parent
		case xml.CharData:
			if current == root {
				continue
			}
			current.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
		}
	}
	if elements == 0 {
		return nil, errors.New("decoding xml: no elements")
	}
	return root, nil
}

type selection struct {
	s *goquery.Selection
}

func (n selection) Find(selector string) (Node, bool) {
	match := n.s.Find(selector).First()
	if match.Length() == 0 {
		return nil, false
	}
	return selection{match}, true
}

func (n selection) FindAll(selector string) []Node {
	return nodes(n.s.Find(selector))
}

func (n selection) Children(tag string) []Node {
	return nodes(n.s.ChildrenFiltered(tag))
}

func (n selection) Attr(name string) (string, bool) {
	return n.s.Attr(name)
}

func (n selection) Text() string {
	return n.s.Text()
}

func (n selection) Tag() string {
	if len(n.s.Nodes) == 0 || n.s.Nodes[0].Type != html.ElementNode {
		return ""
	}
	return n.s.Nodes[0].Data
}

func nodes(s *goquery.Selection) []Node {
	out := make([]Node, 0, s.Length())
	s.Each(func(i int, s *goquery.Selection) {
		out = append(out, selection{s})
	})
	return out
}
