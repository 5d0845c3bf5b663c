package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

var headingTags = map[string]string{
	TypeHeading1: "h1",
	TypeHeading2: "h2",
	TypeHeading3: "h3",
	TypeHeading4: "h4",
	TypeHeading5: "h5",
	TypeHeading6: "h6",
}

// HTML returns a templ.Component that renders spans as HTML.
func HTML(spans []Span) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderHTML(&buf, spans)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// AsHTML renders spans to an HTML string.
func AsHTML(spans []Span) string {
	var buf bytes.Buffer
	RenderHTML(&buf, spans)
	return buf.String()
}

// RenderHTML writes the HTML representation of spans to buf. Consecutive
// list items are grouped into a single list.
func RenderHTML(buf *bytes.Buffer, spans []Span) {
	inList := false
	inOrderedList := false

	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	flushOrderedList := func() {
		if inOrderedList {
			buf.WriteString("</ol>")
			inOrderedList = false
		}
	}

	for _, s := range spans {
		switch s.Type {
		case TypeListItem:
			flushOrderedList()
			if !inList {
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(s, true))
			buf.WriteString("</li>")
		case TypeOListItem:
			flushList()
			if !inOrderedList {
				buf.WriteString("<ol>")
				inOrderedList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(s, true))
			buf.WriteString("</li>")
		case TypePreformatted:
			flushList()
			flushOrderedList()
			buf.WriteString("<pre>")
			buf.WriteString(FormatInline(s, false))
			buf.WriteString("</pre>")
		default:
			flushList()
			flushOrderedList()
			tag, ok := headingTags[s.Type]
			if !ok {
				tag = "p"
			}
			buf.WriteString("<" + tag + ">")
			buf.WriteString(FormatInline(s, true))
			buf.WriteString("</" + tag + ">")
		}
	}
	flushList()
	flushOrderedList()
}

// FormatInline escapes the span text and applies its marks. Overlapping
// marks are nested so the output stays well-formed. With breaks set,
// newlines become <br />.
func FormatInline(s Span, breaks bool) string {
	runes := []rune(s.Text)
	marks := validMarks(s.Spans, len(runes))
	if len(marks) == 0 {
		return escapeText(string(runes), breaks)
	}

	cuts := []int{0, len(runes)}
	for _, m := range marks {
		cuts = append(cuts, m.Start, m.End)
	}
	sort.Ints(cuts)

	var b strings.Builder
	var open []int // indexes into marks, outermost first
	prev := -1
	for _, at := range cuts {
		if at == prev {
			continue
		}
		if prev >= 0 {
			b.WriteString(escapeText(string(runes[prev:at]), breaks))
		}
		prev = at
		if at == len(runes) {
			break
		}

		var active []int
		for i, m := range marks {
			if m.Start <= at && at < m.End {
				active = append(active, i)
			}
		}
		keep := 0
		for keep < len(open) && keep < len(active) && open[keep] == active[keep] {
			keep++
		}
		for i := len(open) - 1; i >= keep; i-- {
			b.WriteString(closeTag(marks[open[i]]))
		}
		for _, i := range active[keep:] {
			b.WriteString(openTag(marks[i]))
		}
		open = active
	}
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString(closeTag(marks[open[i]]))
	}
	return b.String()
}

// validMarks clamps marks to the text, drops empty or unknown ones and
// orders them outermost first.
func validMarks(in []Mark, n int) []Mark {
	var out []Mark
	for _, m := range in {
		if m.Start < 0 {
			m.Start = 0
		}
		if m.End > n {
			m.End = n
		}
		if m.Start >= m.End {
			continue
		}
		switch m.Type {
		case MarkStrong, MarkEm, MarkHyperlink:
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End > out[j].End
	})
	return out
}

func openTag(m Mark) string {
	switch m.Type {
	case MarkStrong:
		return "<strong>"
	case MarkEm:
		return "<em>"
	}
	if m.Data == nil {
		return "<span>"
	}
	href := SafeURL(m.Data.URL)
	if href == "" {
		return "<span>"
	}
	attrs := `href="` + href + `"`
	if m.Data.Target == "_blank" {
		attrs += ` target="_blank" rel="noopener noreferrer"`
	}
	return "<a " + attrs + ">"
}

func closeTag(m Mark) string {
	switch m.Type {
	case MarkStrong:
		return "</strong>"
	case MarkEm:
		return "</em>"
	}
	if m.Data == nil || SafeURL(m.Data.URL) == "" {
		return "</span>"
	}
	return "</a>"
}

func escapeText(s string, breaks bool) string {
	escaped := html.EscapeString(s)
	if breaks {
		escaped = strings.ReplaceAll(escaped, "\n", "<br />")
	}
	return escaped
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
