// Package markdown extracts document metadata from Markdown bodies.
//
// This is an analysis API; it never renders HTML.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// FirstHeading returns the text of the first level-1 heading, if any.
func FirstHeading(body []byte) (string, bool) {
	root := ParseBody(body)
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = nodeText(h, body)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	title = strings.TrimSpace(title)
	return title, title != ""
}

// Summary returns the plain text of the first paragraph, cut at maxLen runes
// with an ellipsis. Headings, code blocks and lists are skipped.
func Summary(body []byte, maxLen int) string {
	root := ParseBody(body)
	var summary string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if p, ok := n.(*gmast.Paragraph); ok {
			summary = strings.TrimSpace(nodeText(p, body))
			if summary != "" {
				break
			}
		}
	}
	summary = strings.Join(strings.Fields(summary), " ")
	if maxLen > 0 {
		if r := []rune(summary); len(r) > maxLen {
			summary = strings.TrimSpace(string(r[:maxLen])) + "…"
		}
	}
	return summary
}

// nodeText concatenates the text segments below n, keeping soft line breaks as spaces.
func nodeText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		case *gmast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if tt, ok := cc.(*gmast.Text); ok {
					buf.Write(tt.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
