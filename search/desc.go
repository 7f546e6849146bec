package search

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// ShortDesc extracts the first paragraph of a markdown doc string and
// flattens it to plain text with normalized whitespace. Headings, code
// blocks and anything after the first paragraph are ignored.
func ShortDesc(doc string) string {
	if doc == "" {
		return ""
	}

	root := gm.Parse([]byte(doc), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	var b strings.Builder
	inParagraph := false

	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Paragraph:
			if entering {
				inParagraph = true
				return ast.GoToNext
			}
			if inParagraph {
				return ast.Terminate
			}
		case *ast.Text:
			if inParagraph {
				b.Write(n.Literal)
				b.WriteByte(' ')
			}
		case *ast.Code:
			if inParagraph {
				b.Write(n.Literal)
				b.WriteByte(' ')
			}
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(b.String()), " ")
}
