// Package markdown turns model-generated markdown into terminal text.
package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Renderer converts markdown to plain text. The optional hooks decorate
// headings and emphasis; nil hooks leave the text as is.
type Renderer struct {
	Heading func(string) string
	Strong  func(string) string
	Em      func(string) string
}

var md = goldmark.New()

// ToText renders src without decoration.
func ToText(src string) string {
	return Renderer{}.Render(src)
}

// Render parses src and lays it out as plain lines: list bullets, indented
// code and "text (url)" links. Emphasis markers are removed.
func (r Renderer) Render(src string) string {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	r.blocks(&b, doc, source, "", true)
	return strings.TrimRight(b.String(), "\n")
}

func apply(fn func(string) string, s string) string {
	if fn == nil || s == "" {
		return s
	}
	return fn(s)
}

func writeLines(b *strings.Builder, indent, s string) {
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

// blocks writes the block children of parent. Separated blocks get a blank
// line between them; list items do not.
func (r Renderer) blocks(b *strings.Builder, parent ast.Node, src []byte, indent string, separated bool) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Heading:
			writeLines(b, indent, apply(r.Heading, r.inline(n, src)))
		case *ast.Paragraph, *ast.TextBlock:
			writeLines(b, indent, r.inline(n, src))
		case *ast.List:
			r.list(b, n, src, indent)
		case *ast.FencedCodeBlock:
			r.code(b, n.Lines(), src, indent)
		case *ast.CodeBlock:
			r.code(b, n.Lines(), src, indent)
		case *ast.Blockquote:
			r.blocks(b, n, src, indent+"│ ", false)
		case *ast.ThematicBreak:
			b.WriteString(indent + "────────\n")
		case *ast.HTMLBlock:
			r.code(b, n.Lines(), src, indent)
		default:
			r.blocks(b, n, src, indent, false)
		}
		if separated && n.NextSibling() != nil {
			b.WriteByte('\n')
		}
	}
}

func (r Renderer) list(b *strings.Builder, l *ast.List, src []byte, indent string) {
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "• "
		if l.IsOrdered() {
			bullet = strconv.Itoa(num) + ". "
			num++
		}

		var sub strings.Builder
		r.blocks(&sub, item, src, "", false)
		lines := strings.Split(strings.TrimRight(sub.String(), "\n"), "\n")

		pad := strings.Repeat(" ", len([]rune(bullet)))
		for i, line := range lines {
			if i == 0 {
				b.WriteString(indent + bullet + line + "\n")
			} else {
				b.WriteString(indent + pad + line + "\n")
			}
		}
	}
}

func (r Renderer) code(b *strings.Builder, lines *text.Segments, src []byte, indent string) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.WriteString(indent + "    " + strings.TrimRight(string(seg.Value(src)), "\r\n") + "\n")
	}
}

func (r Renderer) inline(parent ast.Node, src []byte) string {
	var b strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.Emphasis:
			inner := r.inline(n, src)
			if n.Level >= 2 {
				b.WriteString(apply(r.Strong, inner))
			} else {
				b.WriteString(apply(r.Em, inner))
			}
		case *ast.Link:
			label := r.inline(n, src)
			b.WriteString(label)
			if dest := string(n.Destination); dest != "" && dest != label {
				b.WriteString(" (" + dest + ")")
			}
		case *ast.AutoLink:
			b.Write(n.URL(src))
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				b.Write(seg.Value(src))
			}
		default:
			b.WriteString(r.inline(n, src))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
