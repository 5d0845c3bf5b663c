package pubfront

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eringen/pubfront/richtext"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// doc returns a single-block document whose body holds n words.
func doc(heading string, n int) richtext.Document {
	body := strings.TrimSpace(strings.Repeat("word ", n))
	return richtext.Document{{
		Heading: heading,
		Body:    []richtext.Span{{Type: richtext.TypeParagraph, Text: body}},
	}}
}

func testPost(slug string, published time.Time, tags ...string) Post {
	return Post{
		Slug:           slug,
		Title:          "Post " + slug,
		Author:         "Ada",
		Tags:           tags,
		Content:        doc("", 10),
		FirstPublished: published,
		LastPublished:  published,
		Published:      true,
	}
}

func mustSave(t *testing.T, s *Store, posts ...Post) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%q) failed: %v", p.Slug, err)
		}
	}
}
