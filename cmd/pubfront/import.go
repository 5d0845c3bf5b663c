package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubfront"
	"github.com/eringen/pubfront/richtext"
)

// postFile is the on-disk shape of an import file. JSON input is accepted
// too since it parses as YAML.
type postFile struct {
	Posts []postEntry `yaml:"posts"`
}

type postEntry struct {
	Slug           string            `yaml:"slug"`
	Title          string            `yaml:"title"`
	Subtitle       string            `yaml:"subtitle"`
	Author         string            `yaml:"author"`
	Banner         string            `yaml:"banner"`
	Tags           []string          `yaml:"tags"`
	FirstPublished time.Time         `yaml:"first_published"`
	LastPublished  time.Time         `yaml:"last_published"`
	Draft          bool              `yaml:"draft"`
	Content        richtext.Document `yaml:"content"`
}

func (e postEntry) post() pubfront.Post {
	slug := e.Slug
	if slug == "" {
		slug = pubfront.Slugify(e.Title)
	}
	return pubfront.Post{
		Slug:           slug,
		Title:          e.Title,
		Subtitle:       e.Subtitle,
		Author:         e.Author,
		Banner:         e.Banner,
		Tags:           pubfront.FilterEmpty(e.Tags),
		Content:        e.Content,
		FirstPublished: e.FirstPublished,
		LastPublished:  e.LastPublished,
		Published:      !e.Draft,
	}
}

func loadPosts(path string) ([]pubfront.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f postFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	posts := make([]pubfront.Post, 0, len(f.Posts))
	for i, e := range f.Posts {
		p := e.post()
		if p.Slug == "" {
			return nil, fmt.Errorf("%s: post %d has neither slug nor title", path, i+1)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func runImport(c *cli.Context) error {
	path, err := argFile(c)
	if err != nil {
		return err
	}
	store, err := pubfront.NewStore(c.String("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := importFile(store, path); err != nil {
		return err
	}
	if !c.Bool("watch") {
		return nil
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchFile(ctx, path, func() error { return importFile(store, path) })
}

func importFile(store *pubfront.Store, path string) error {
	posts, err := loadPosts(path)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if err := store.SavePost(p); err != nil {
			return fmt.Errorf("save %q: %w", p.Slug, err)
		}
	}
	log.Printf("imported %d posts from %s", len(posts), path)
	return nil
}
