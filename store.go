package pubfront

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eringen/pubfront/richtext"
)

const postColumns = `id, slug, title, subtitle, author, banner, tags, content, first_published_at, last_published_at, published`

// timeLayout is fixed-width so that publication times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps a SQLite database and provides CRUD operations for posts
// and banner images.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during writes; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT NOT NULL UNIQUE,
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    subtitle TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    banner TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    content TEXT NOT NULL,
    first_published_at TEXT NOT NULL,
    last_published_at TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_posts_first_published ON posts(first_published_at);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var id, slug, title, subtitle, author, banner, tags, content, first, last string
	var published int
	if err := row.Scan(&id, &slug, &title, &subtitle, &author, &banner, &tags, &content, &first, &last, &published); err != nil {
		return Post{}, err
	}
	var doc richtext.Document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return Post{}, fmt.Errorf("decode content of %q: %w", slug, err)
	}
	firstAt, err := time.Parse(time.RFC3339Nano, first)
	if err != nil {
		return Post{}, fmt.Errorf("parse first_published_at of %q: %w", slug, err)
	}
	lastAt, err := time.Parse(time.RFC3339Nano, last)
	if err != nil {
		return Post{}, fmt.Errorf("parse last_published_at of %q: %w", slug, err)
	}
	return Post{
		ID:             id,
		Slug:           slug,
		Title:          title,
		Subtitle:       subtitle,
		Author:         author,
		Banner:         banner,
		Tags:           ParseTags(tags),
		Content:        doc,
		FirstPublished: firstAt,
		LastPublished:  lastAt,
		Published:      published == 1,
		Link:           postPath(slug),
	}, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPosts returns all published posts, newest first.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(tag string) ([]Post, error) {
	if tag == "" {
		return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE published = 1 ORDER BY first_published_at DESC`)
	}
	normalizedTag := strings.ToLower(strings.TrimSpace(tag))
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY first_published_at DESC`, normalizedTag)
}

// ListAllPosts returns every post (published and drafts), newest first.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY first_published_at DESC`)
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE published = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(slug string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug))
}

// GetPostAny returns a post by slug regardless of published status (for
// admin and preview).
func (s *Store) GetPostAny(slug string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug))
}

// SavePost upserts a post keyed by slug. Tags are normalized to lowercase.
// A new post gets a UUID and a first publication time; an existing post
// keeps both and only its last publication time moves. A missing last
// publication time defaults to the first one, so a backdated import is not
// reported as edited.
func (s *Store) SavePost(p Post) error {
	normalizedTags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		normalizedTags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	tagString := "," + strings.Join(normalizedTags, ",") + ","
	content, err := json.Marshal(p.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	if p.Content == nil {
		content = []byte("[]")
	}
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	first := p.FirstPublished
	if first.IsZero() {
		first = now
	}
	last := p.LastPublished
	if last.IsZero() {
		last = first
	}
	if last.Before(first) {
		last = first
	}
	published := 0
	if p.Published {
		published = 1
	}
	_, err = s.db.Exec(`
INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
    title = excluded.title,
    subtitle = excluded.subtitle,
    author = excluded.author,
    banner = excluded.banner,
    tags = excluded.tags,
    content = excluded.content,
    last_published_at = excluded.last_published_at,
    published = excluded.published`,
		id, p.Slug, p.Title, p.Subtitle, p.Author, p.Banner, tagString, string(content),
		first.UTC().Format(timeLayout), last.UTC().Format(timeLayout), published)
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns all uploaded images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
