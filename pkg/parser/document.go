package parser

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	cellMatcher = cascadia.MustCompile(`td`)
	rowMatcher  = cascadia.MustCompile(`tr`)
	fontMatcher = cascadia.MustCompile(`font`)
	imgMatcher  = cascadia.MustCompile(`img`)
	spanMatcher = cascadia.MustCompile(`span`)
)

// AttrPredicate selects elements by the value of a single attribute.
// Elements without the attribute never match. Zero value matches everything.
type AttrPredicate struct {
	Name  string
	Match func(value string) bool
}

func (p AttrPredicate) matches(sel *goquery.Selection) bool {
	if p.Name == "" {
		return true
	}
	value, ok := sel.Attr(p.Name)
	return ok && p.Match(value)
}

// AttrEquals matches attribute values exactly.
func AttrEquals(name, expected string) AttrPredicate {
	return AttrPredicate{Name: name, Match: func(value string) bool {
		return value == expected
	}}
}

// AttrEqualsFold matches attribute values ignoring case.
func AttrEqualsFold(name, expected string) AttrPredicate {
	return AttrPredicate{Name: name, Match: func(value string) bool {
		return strings.EqualFold(value, expected)
	}}
}

// AttrContains matches attribute values containing substr.
func AttrContains(name, substr string) AttrPredicate {
	return AttrPredicate{Name: name, Match: func(value string) bool {
		return strings.Contains(value, substr)
	}}
}

// Node is an element of a parsed page. A nil *Node stands for "not found",
// every method accepts it and returns nil or an empty value, so structural
// walks can be chained without checks at each step.
type Node struct {
	sel *goquery.Selection
}

// ParseDocument builds a tree out of page. Rows and cells that are not
// inside a table keep their structure, as if page was a table body.
func ParseDocument(page io.Reader) (*Node, error) {
	content, err := ioutil.ReadAll(page)
	if err != nil {
		return nil, fmt.Errorf("can not read page: %w", err)
	}
	var root *html.Node
	if hasLooseRows(content) {
		root, err = parseTableBody(content)
	} else {
		root, err = html.Parse(bytes.NewReader(content))
	}
	if err != nil {
		return nil, fmt.Errorf("can not parse page: %w", err)
	}
	return &Node{sel: goquery.NewDocumentFromNode(root).Selection}, nil
}

// hasLooseRows reports whether page has tr, td or th outside of any table.
// HTML5 tree construction drops such tags together with the structure
// extractors rely on.
func hasLooseRows(page []byte) bool {
	z := html.NewTokenizer(bytes.NewReader(page))
	depth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			switch a := atom.Lookup(name); {
			case a == atom.Table && tt == html.StartTagToken:
				depth++
			case a == atom.Table && depth > 0:
				depth--
			case depth == 0 && tt == html.StartTagToken && (a == atom.Tr || a == atom.Td || a == atom.Th):
				return true
			}
		}
	}
}

// parseTableBody parses page in tbody context and puts the result under a
// document node. A cell without a row gets an implied one.
func parseTableBody(page []byte) (*html.Node, error) {
	tbody := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Tbody.String(),
		DataAtom: atom.Tbody,
	}
	nodes, err := html.ParseFragment(bytes.NewReader(page), tbody)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, node := range nodes {
		root.AppendChild(node)
	}
	return root, nil
}

func wrap(sel *goquery.Selection) *Node {
	if sel.Length() == 0 {
		return nil
	}
	return &Node{sel: sel.First()}
}

// FindAll returns descendants matching tag and pred in document order.
func (n *Node) FindAll(tag cascadia.Selector, pred AttrPredicate) []*Node {
	if n == nil {
		return nil
	}
	found := n.sel.FindMatcher(tag).FilterFunction(func(i int, sel *goquery.Selection) bool {
		return pred.matches(sel)
	})
	nodes := make([]*Node, 0, found.Length())
	found.Each(func(i int, sel *goquery.Selection) {
		nodes = append(nodes, &Node{sel: sel})
	})
	return nodes
}

// FindFirst returns the first descendant matching tag and pred.
func (n *Node) FindFirst(tag cascadia.Selector, pred AttrPredicate) *Node {
	if n == nil {
		return nil
	}
	found := n.sel.FindMatcher(tag).FilterFunction(func(i int, sel *goquery.Selection) bool {
		return pred.matches(sel)
	})
	return wrap(found)
}

// Enclosing returns the closest ancestor matching tag.
func (n *Node) Enclosing(tag cascadia.Selector) *Node {
	if n == nil {
		return nil
	}
	return wrap(n.sel.ParentsMatcher(tag))
}

// NextSibling returns the closest following sibling element matching tag.
func (n *Node) NextSibling(tag cascadia.Selector) *Node {
	if n == nil {
		return nil
	}
	return wrap(n.sel.NextAllMatcher(tag))
}

// Attr returns the attribute value or empty string.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.sel.AttrOr(name, "")
}

// Text returns the text content trimmed at both ends.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.sel.Text())
}
