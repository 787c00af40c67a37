package skill

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Link is a link or image destination found in a skill body.
type Link struct {
	Destination string
	Image       bool
}

// Headings returns the text of every heading in the markdown source,
// in document order.
func Headings(source []byte) []string {
	var headings []string

	walk(source, func(n ast.Node) {
		h, ok := n.(*ast.Heading)
		if !ok {
			return
		}
		headings = append(headings, nodeText(h, source))
	})

	return headings
}

// Links returns every link and image destination in the markdown
// source, in document order. Autolinks are included since they resolve
// the same way.
func Links(source []byte) []Link {
	var links []Link

	walk(source, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Link:
			links = append(links, Link{Destination: string(v.Destination)})
		case *ast.Image:
			links = append(links, Link{Destination: string(v.Destination), Image: true})
		case *ast.AutoLink:
			links = append(links, Link{Destination: string(v.URL(source))})
		}
	})

	return links
}

func walk(source []byte, visit func(ast.Node)) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			visit(n)
		}
		return ast.WalkContinue, nil
	})
}

// nodeText collects the raw text segments beneath a node, flattening
// inline code and emphasis so styled headings still compare equal.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if v, ok := n.(*ast.Text); ok {
			sb.Write(v.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}
