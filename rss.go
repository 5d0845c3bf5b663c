package pubfront

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfront/richtext"
)

const feedExcerptRunes = 280

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Category    []string `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

// feedDescription prefers the subtitle and falls back to an excerpt of the
// post body.
func feedDescription(p Post) string {
	if p.Subtitle != "" {
		return p.Subtitle
	}
	return richtext.Excerpt(p.Content, feedExcerptRunes)
}

func (a *App) renderRSS(c echo.Context, posts []Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: feedDescription(p),
			Author:      p.Author,
			Category:    p.Tags,
			PubDate:     p.FirstPublished.Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	return renderXML(c, "application/rss+xml; charset=utf-8", feed)
}
