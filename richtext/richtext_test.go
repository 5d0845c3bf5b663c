package richtext

import (
	"encoding/json"
	"testing"
)

func TestFlattenToPlainText(t *testing.T) {
	spans := []Span{{Text: "Hello "}, {Text: "rich"}, {Text: " text."}}
	if got := FlattenToPlainText(spans); got != "Hello rich text." {
		t.Errorf("FlattenToPlainText = %q", got)
	}
	if got := FlattenToPlainText(nil); got != "" {
		t.Errorf("FlattenToPlainText(nil) = %q, want empty", got)
	}
}

func TestBlockPlainText(t *testing.T) {
	tests := []struct {
		block Block
		want  string
	}{
		{Block{Heading: "Intro", Body: []Span{{Text: "a "}, {Text: "b"}}}, "Intro\na b"},
		{Block{Body: []Span{{Text: "only body"}}}, "only body"},
		{Block{Heading: "Only heading"}, "Only heading"},
		{Block{}, ""},
	}
	for _, tt := range tests {
		if got := tt.block.PlainText(); got != tt.want {
			t.Errorf("PlainText(%+v) = %q, want %q", tt.block, got, tt.want)
		}
	}
}

func TestDocumentPlainText(t *testing.T) {
	doc := Document{
		{Heading: "One", Body: []Span{{Text: "first"}}},
		{},
		{Heading: "Two", Body: []Span{{Text: "second"}}},
	}
	if got := doc.PlainText(); got != "One\nfirst\n\nTwo\nsecond" {
		t.Errorf("PlainText = %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	doc := Document{{
		Heading: "Ignored heading",
		Body:    []Span{{Text: "The quick  brown fox,"}, {Text: " jumps over the lazy dog."}},
	}}
	tests := []struct {
		max  int
		want string
	}{
		{0, ""},
		{200, "The quick brown fox, jumps over the lazy dog."},
		{21, "The quick brown fox…"},
		{12, "The quick…"},
	}
	for _, tt := range tests {
		if got := Excerpt(doc, tt.max); got != tt.want {
			t.Errorf("Excerpt(%d) = %q, want %q", tt.max, got, tt.want)
		}
	}
}

func TestDocumentJSONShape(t *testing.T) {
	raw := `[{"heading":"Hello world","body":[{"type":"paragraph","text":"foo bar baz","spans":[{"start":0,"end":3,"type":"hyperlink","data":{"url":"https://example.com"}}]}]}]`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(doc) != 1 || doc[0].Heading != "Hello world" || len(doc[0].Body) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	mark := doc[0].Body[0].Spans[0]
	if mark.Type != MarkHyperlink || mark.Data == nil || mark.Data.URL != "https://example.com" {
		t.Errorf("unexpected mark: %+v", mark)
	}
	got, err := EstimateReadingTime(doc, DefaultWordsPerMinute)
	if err != nil || got != 1 {
		t.Errorf("EstimateReadingTime = %d, %v; want 1, nil", got, err)
	}
}
