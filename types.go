package pubfront

import (
	"net/url"
	"strconv"
	"time"

	"github.com/eringen/pubfront/richtext"
)

// Post is the core content type stored in SQLite and rendered by templates.
// Content is a structured rich-text document; ReadTime is filled in by the
// cache from Content and is not persisted.
type Post struct {
	ID             string
	Slug           string
	Title          string
	Subtitle       string
	Author         string
	Banner         string
	Tags           []string
	Content        richtext.Document
	FirstPublished time.Time
	LastPublished  time.Time
	Published      bool
	ReadTime       int
	Link           string
}

// Edited reports whether the post changed after its first publication.
func (p Post) Edited() bool {
	return !p.LastPublished.Equal(p.FirstPublished)
}

// PostRef is a lightweight pointer to a neighbouring post.
type PostRef struct {
	Slug  string
	Title string
	Link  string
}

// postPath is the URL path of a post page without the trailing slash.
func postPath(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}

func refOf(p Post) *PostRef {
	return &PostRef{Slug: p.Slug, Title: p.Title, Link: p.Link}
}

// PostPage is everything the post template needs.
type PostPage struct {
	Post    Post
	Prev    *PostRef // next older post
	Next    *PostRef // next newer post
	Related []Post
	Preview bool
	SiteURL string
}

// Image is an uploaded banner image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// ReadTimeLabel formats a reading time as "<N> min".
func ReadTimeLabel(minutes int) string {
	return strconv.Itoa(minutes) + " min"
}
