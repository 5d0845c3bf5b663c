package pubfront

import (
	"database/sql"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/eringen/pubfront/richtext"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// PostCache is an in-memory cache of published posts and tags with TTL.
// Reading times are computed once per load.
type PostCache struct {
	mu        sync.RWMutex
	posts     []Post
	tags      []string
	fetched   time.Time
	ttl       time.Duration
	store     *Store
	estimator richtext.Estimator
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration, est richtext.Estimator) *PostCache {
	return &PostCache{store: s, ttl: ttl, estimator: est}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	for i := range posts {
		withReadTime(&posts[i], c.estimator)
	}
	c.posts = posts
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// withReadTime fills p.ReadTime. A failed estimate leaves 0.
func withReadTime(p *Post, est richtext.Estimator) {
	minutes, err := est.Estimate(p.Content)
	if err != nil {
		log.Printf("pubfront: read time for %q: %v", p.Slug, err)
		return
	}
	p.ReadTime = minutes
}

// ensureLoaded returns cached posts and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]Post, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.tags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.tags, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	_, tags, err := c.ensureLoaded()
	return tags, err
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(slug string) (Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Adjacent returns the published posts around slug: prev is the next older
// post and next the next newer one. Either may be nil. A slug that is not
// published yields two nils.
func (c *PostCache) Adjacent(slug string) (prev, next *PostRef, err error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, nil, err
	}
	for i, p := range posts {
		if p.Slug != slug {
			continue
		}
		if i+1 < len(posts) {
			prev = refOf(posts[i+1])
		}
		if i > 0 {
			next = refOf(posts[i-1])
		}
		return prev, next, nil
	}
	return nil, nil, nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
