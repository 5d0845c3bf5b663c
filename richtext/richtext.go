// Package richtext models structured rich-text documents as delivered by a
// headless CMS and provides word counting, reading-time estimation and
// HTML rendering over them.
//
// A Document is a list of blocks. Each block has a heading and a body of
// typed spans (paragraphs, list items, preformatted text). Inline
// formatting lives in span marks and never affects word counts.
package richtext

import "strings"

// Span types understood by the renderer. An empty type renders as a paragraph.
const (
	TypeParagraph    = "paragraph"
	TypePreformatted = "preformatted"
	TypeListItem     = "list-item"
	TypeOListItem    = "o-list-item"
	TypeHeading1     = "heading1"
	TypeHeading2     = "heading2"
	TypeHeading3     = "heading3"
	TypeHeading4     = "heading4"
	TypeHeading5     = "heading5"
	TypeHeading6     = "heading6"
)

// Mark types for inline formatting.
const (
	MarkStrong    = "strong"
	MarkEm        = "em"
	MarkHyperlink = "hyperlink"
)

// Document is an ordered sequence of content blocks.
type Document []Block

// Block is a headed section of a document.
type Block struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    []Span `json:"body" yaml:"body"`
}

// Span is one run of body text.
type Span struct {
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Text  string `json:"text" yaml:"text"`
	Spans []Mark `json:"spans,omitempty" yaml:"spans,omitempty"`
}

// Mark applies inline formatting to Text[Start:End] of its span,
// measured in runes.
type Mark struct {
	Start int       `json:"start" yaml:"start"`
	End   int       `json:"end" yaml:"end"`
	Type  string    `json:"type" yaml:"type"`
	Data  *MarkData `json:"data,omitempty" yaml:"data,omitempty"`
}

// MarkData carries hyperlink attributes.
type MarkData struct {
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// FlattenToPlainText concatenates the text of every span in order,
// without separators.
func FlattenToPlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// PlainText returns the heading and the flattened body separated by a
// newline. An empty heading is omitted.
func (b Block) PlainText() string {
	body := FlattenToPlainText(b.Body)
	if b.Heading == "" {
		return body
	}
	if body == "" {
		return b.Heading
	}
	return b.Heading + "\n" + body
}

// PlainText renders the whole document as plain text, one block per
// paragraph.
func (d Document) PlainText() string {
	parts := make([]string, 0, len(d))
	for _, b := range d {
		if t := b.PlainText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Excerpt returns at most maxRunes runes of the document body text with
// whitespace collapsed, cut at a word boundary and suffixed with an
// ellipsis when truncated. Headings are skipped.
func Excerpt(d Document, maxRunes int) string {
	var words []string
	for _, b := range d {
		for _, s := range b.Body {
			words = append(words, strings.FieldsFunc(s.Text, isSpace)...)
		}
	}
	text := strings.Join(words, " ")
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:.") + "…"
}
