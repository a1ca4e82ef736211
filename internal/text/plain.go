// Package text turns model replies written in Markdown into plain text
// suitable for chat clients that render messages verbatim.
package text

import (
	"bytes"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var (
	// Zero-width and bidi controls; line and paragraph separators become newlines.
	unicodeReplacer = strings.NewReplacer(
		"\u200B", "", "\u200C", "", "\u200D", "", "\u2060", "", "\uFEFF", "",
		"\u00AD", "", "\u202A", "", "\u202B", "", "\u202C", "", "\u202D", "", "\u202E", "",
		"\u2028", "\n", "\u2029", "\n\n",
	)

	controlChars     = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	blockOpenTags    = regexp.MustCompile(`<(p|div|pre|blockquote|h[1-6])(\s[^>]*)?>|<br\s*/?>`)
	blockCloseTags   = regexp.MustCompile(`</(p|div|pre|h[1-6])>|<hr\s*/?>`)
	multipleNewlines = regexp.MustCompile(`\n\s*\n+`)
	trailingSpace    = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Converter strips Markdown and HTML from text. It is safe for concurrent
// use.
type Converter struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewConverter builds a Converter that keeps list markers and link targets.
func NewConverter() *Converter {
	return &Converter{
		markdown: goldmark.New(
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(util.Prioritized(plainRenderer{}, 100)),
			),
		),
		policy: bluemonday.StrictPolicy(),
	}
}

var defaultConverter = NewConverter()

// Plain converts Markdown formatting to plain text with the default
// Converter.
func Plain(s string) string {
	return defaultConverter.Plain(s)
}

// Plain converts Markdown formatting to plain text. Paragraph breaks are
// kept, bullets become "•" and numbered lists keep their numbers.
func (c *Converter) Plain(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = unicodeReplacer.Replace(s)
	s = controlChars.ReplaceAllString(s, "")

	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(s), &buf); err != nil {
		return strings.TrimSpace(s)
	}

	out := blockOpenTags.ReplaceAllString(buf.String(), "")
	out = blockCloseTags.ReplaceAllString(out, "\n")
	out = c.policy.Sanitize(out)
	out = html.UnescapeString(out)

	out = trailingSpace.ReplaceAllString(out, "")
	out = multipleNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// plainRenderer overrides the HTML renderer for nodes whose meaning would
// be lost once tags are stripped.
type plainRenderer struct{}

func (plainRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindList, renderList)
	reg.Register(ast.KindListItem, renderListItem)
	reg.Register(ast.KindLink, renderLink)
	reg.Register(ast.KindImage, renderImage)
}

func renderList(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		if _, nested := n.Parent().(*ast.ListItem); !nested {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

func renderListItem(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	list, _ := n.Parent().(*ast.List)
	if !entering {
		if _, endsWithList := n.LastChild().(*ast.List); !endsWithList {
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(strings.Repeat("  ", listDepth(n)))
	if list != nil && list.IsOrdered() {
		index := list.Start
		for prev := n.PreviousSibling(); prev != nil; prev = prev.PreviousSibling() {
			index++
		}
		_, _ = w.WriteString(strconv.Itoa(index) + ". ")
	} else {
		_, _ = w.WriteString("• ")
	}
	return ast.WalkContinue, nil
}

// listDepth counts the lists enclosing the item's own list.
func listDepth(item ast.Node) int {
	depth := 0
	for p := item.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}
	return max(depth-1, 0)
}

func renderLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		return ast.WalkContinue, nil
	}
	link := n.(*ast.Link)
	dest := link.Destination
	if len(dest) == 0 || bytes.Equal(dest, []byte(nodeText(n, source))) {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(" (")
	_, _ = w.Write(util.EscapeHTML(dest))
	_ = w.WriteByte(')')
	return ast.WalkContinue, nil
}

func renderImage(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(util.EscapeHTML(n.(*ast.Image).Destination))
	}
	return ast.WalkSkipChildren, nil
}

// nodeText concatenates the text segments below n.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			sb.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
