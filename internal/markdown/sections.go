// Package markdown splits generated documentation into heading sections.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is the text under one heading, up to the next heading of the same
// or a higher level. Text before the first heading forms a section with an
// empty title and level 0.
type Section struct {
	Title   string
	Level   int
	Content string
}

type heading struct {
	level     int
	title     string
	lineStart int // offset of the heading's first line
	bodyStart int // offset just past the heading and any setext underline
}

// Sections splits body at its outermost headings. Headings inside code
// blocks and block quotes are ignored.
func Sections(body []byte) []Section {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var headings []heading
	minLevel := 7
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		start := lineStart(body, h.Lines().At(0).Start)
		bodyStart := lineEnd(body, lastByte(h.Lines().At(h.Lines().Len()-1)))
		if !isATX(body[start:]) {
			bodyStart = lineEnd(body, bodyStart)
		}
		headings = append(headings, heading{
			level:     h.Level,
			title:     strings.TrimSpace(nodeText(h, body)),
			lineStart: start,
			bodyStart: bodyStart,
		})
		if h.Level < minLevel {
			minLevel = h.Level
		}
	}

	var outer []heading
	for _, h := range headings {
		if h.level == minLevel {
			outer = append(outer, h)
		}
	}

	var sections []Section
	preambleEnd := len(body)
	if len(outer) > 0 {
		preambleEnd = outer[0].lineStart
	}
	if pre := strings.TrimSpace(string(body[:preambleEnd])); pre != "" {
		sections = append(sections, Section{Content: pre})
	}

	for i, h := range outer {
		end := len(body)
		if i+1 < len(outer) {
			end = outer[i+1].lineStart
		}
		start := h.bodyStart
		if start > end {
			start = end
		}
		sections = append(sections, Section{
			Title:   h.title,
			Level:   h.level,
			Content: strings.TrimSpace(string(body[start:end])),
		})
	}
	return sections
}

// nodeText concatenates the literal text beneath n.
func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

func lineStart(body []byte, off int) int {
	if i := bytes.LastIndexByte(body[:off], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lastByte returns the offset of the segment's final byte. Segments may or
// may not include their trailing newline.
func lastByte(seg text.Segment) int {
	if seg.Stop > seg.Start {
		return seg.Stop - 1
	}
	return seg.Start
}

func lineEnd(body []byte, off int) int {
	if i := bytes.IndexByte(body[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(body)
}

// isATX reports whether line opens with a '#' heading marker.
func isATX(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " "), []byte("#"))
}
