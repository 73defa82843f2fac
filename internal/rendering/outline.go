package rendering

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Heading is a Markdown heading found in a slide document.
type Heading struct {
	Level int
	Text  string
}

// Summary describes the slide structure of a Markdown document.
type Summary struct {
	Headings     []Heading
	Slides       int // thematic breaks (---) separate slides
	CodeBlocks   int
	Unterminated bool
}

var outlineParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Summarize parses doc with goldmark and collects its headings, slide count,
// and fenced code blocks.
func Summarize(doc string) Summary {
	source := []byte(doc)
	root := outlineParser.Parse(text.NewReader(source))

	summary := Summary{Slides: 1, Unterminated: Unterminated(doc)}
	if strings.TrimSpace(doc) == "" {
		summary.Slides = 0
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			summary.Headings = append(summary.Headings, Heading{
				Level: node.Level,
				Text:  inlineText(node, source),
			})
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			summary.Slides++
		case *ast.FencedCodeBlock:
			summary.CodeBlocks++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return summary
}

// inlineText flattens the text content of an inline container.
func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
