// Package views provides plain, unstyled default templates for pubfront.
// Sites are expected to replace them with their own templ components.
package views

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pubfront"
	"github.com/eringen/pubfront/richtext"
)

// Default returns ViewFuncs backed by the templates in this package.
func Default(siteName string) pubfront.ViewFuncs {
	p := page{site: siteName}
	return pubfront.ViewFuncs{
		Home:             p.home,
		Post:             p.post,
		AdminLogin:       p.adminLogin,
		AdminDashboard:   p.adminDashboard,
		AdminFormPartial: adminForm,
		AdminImages:      adminImages,
		NotFound:         p.notFound,
		ServerError:      p.serverError,
	}
}

type page struct {
	site string
}

var esc = templ.EscapeString[string]

// href sanitizes u with templ's URL rules and escapes it for an attribute.
func href(u string) string {
	return templ.EscapeString(string(templ.URL(u)))
}

// writer collects markup and remembers the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) s(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func (p page) layout(title string, body func(ctx context.Context, w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		full := p.site
		if title != "" {
			full = title + " | " + p.site
		}
		w.s(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"/>`,
			`<title>`, esc(full), `</title>`,
			`<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>`,
			`</head><body><header><a href="/">`, esc(p.site), `</a></header><main>`)
		body(ctx, w)
		w.s(`</main></body></html>`)
		return w.err
	})
}

func (p page) home(posts []pubfront.Post, activeTag string, tags []string, siteURL string) templ.Component {
	return p.layout("Home", func(ctx context.Context, w *writer) {
		if len(tags) > 0 {
			w.s(`<nav class="tags">`)
			for _, t := range tags {
				cls := "tag"
				if t == activeTag {
					cls += " active"
				}
				w.s(`<a class="`, cls, `" href="`, href("/?tag="+url.QueryEscape(t)), `">`, esc(t), `</a> `)
			}
			w.s(`</nav>`)
		}
		for _, post := range posts {
			w.s(`<section class="post"><a href="`, href(post.Link+"/"), `"><h1>`, esc(post.Title), `</h1>`)
			if post.Subtitle != "" {
				w.s(`<h2>`, esc(post.Subtitle), `</h2>`)
			}
			w.s(`<p class="meta"><time>`, esc(pubfront.FormatDate(post.FirstPublished)), `</time>`)
			if post.Author != "" {
				w.s(` · <span>`, esc(post.Author), `</span>`)
			}
			w.s(` · <span>`, esc(pubfront.ReadTimeLabel(post.ReadTime)), `</span></p></a></section>`)
		}
		if len(posts) == 0 {
			w.s(`<p>No posts yet.</p>`)
		}
	})
}

func (p page) post(pg pubfront.PostPage) templ.Component {
	post := pg.Post
	return p.layout(post.Title, func(ctx context.Context, w *writer) {
		if post.Banner != "" {
			w.s(`<div class="banner"><img src="`, href(post.Banner), `" alt="banner"/></div>`)
		}
		w.s(`<article><h1>`, esc(post.Title), `</h1><section class="info">`,
			`<time>`, esc(pubfront.FormatDate(post.FirstPublished)), `</time>`)
		if post.Author != "" {
			w.s(` · <span class="author">`, esc(post.Author), `</span>`)
		}
		w.s(` · <span class="read-time">`, esc(pubfront.ReadTimeLabel(post.ReadTime)), `</span>`)
		if post.Edited() {
			w.s(`<div class="edited"><time>`, esc(pubfront.FormatEdited(post.LastPublished)), `</time></div>`)
		}
		w.s(`</section>`)
		for _, block := range post.Content {
			w.s(`<div class="content"><h2>`, esc(block.Heading), `</h2><div>`)
			w.component(ctx, richtext.HTML(block.Body))
			w.s(`</div></div>`)
		}
		w.s(`</article><footer><nav class="pagination">`)
		if pg.Prev != nil {
			w.s(`<a class="prev" href="`, href(pg.Prev.Link+"/"), `"><span>`, esc(pg.Prev.Title), `</span><strong>Previous post</strong></a>`)
		} else {
			w.s(`<div></div>`)
		}
		if pg.Next != nil {
			w.s(`<a class="next" href="`, href(pg.Next.Link+"/"), `"><span>`, esc(pg.Next.Title), `</span><strong>Next post</strong></a>`)
		}
		w.s(`</nav>`)
		if len(pg.Related) > 0 {
			w.s(`<section class="related"><h3>Related</h3><ul>`)
			for _, r := range pg.Related {
				w.s(`<li><a href="`, href(r.Link+"/"), `">`, esc(r.Title), `</a></li>`)
			}
			w.s(`</ul></section>`)
		}
		if pg.Preview {
			w.s(`<aside class="exit-preview"><a href="/api/exit-preview">Exit preview mode</a></aside>`)
		}
		w.s(`</footer>`)
	})
}

func (p page) notFound() templ.Component {
	return p.layout("Not found", func(ctx context.Context, w *writer) {
		w.s(`<h1>Page not found</h1><p><a href="/">Back home</a></p>`)
	})
}

func (p page) serverError() templ.Component {
	return p.layout("Error", func(ctx context.Context, w *writer) {
		w.s(`<h1>Something went wrong</h1><p>Please try again later.</p>`)
	})
}

func csrfField(token string) string {
	return `<input type="hidden" name="_csrf" value="` + esc(token) + `"/>`
}

func (p page) adminLogin(showError bool, csrfToken string) templ.Component {
	return p.layout("Admin", func(ctx context.Context, w *writer) {
		w.s(`<h1>Admin</h1>`)
		if showError {
			w.s(`<p class="error">Invalid password.</p>`)
		}
		w.s(`<form method="post" action="/admin/login/">`, csrfField(csrfToken),
			`<input type="password" name="password" autofocus/><button type="submit">Log in</button></form>`)
	})
}

func (p page) adminDashboard(posts []pubfront.Post, message string, csrfToken string) templ.Component {
	return p.layout("Dashboard", func(ctx context.Context, w *writer) {
		w.s(`<h1>Posts</h1>`)
		if message != "" {
			w.s(`<p class="message">`, esc(message), `</p>`)
		}
		w.s(`<form method="post" action="/admin/logout/">`, csrfField(csrfToken), `<button type="submit">Log out</button></form>`)
		w.s(`<p><a href="/admin/images/">Banner images</a></p><table><tbody>`)
		for _, post := range posts {
			state := "draft"
			if post.Published {
				state = "published"
			}
			w.s(`<tr><td><a href="`, href("/admin/post/"+url.PathEscape(post.Slug)+"/"), `">`, esc(post.Title), `</a></td>`,
				`<td>`, state, `</td><td>`, esc(pubfront.FormatDate(post.LastPublished)), `</td></tr>`)
		}
		w.s(`</tbody></table>`)
		w.component(ctx, adminForm(pubfront.Post{}, csrfToken))
	})
}

func adminForm(post pubfront.Post, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		content, err := marshalContent(post.Content)
		if err != nil {
			return err
		}
		checked := ""
		if post.Published {
			checked = ` checked`
		}
		w.s(`<form method="post" action="/admin/save/">`, csrfField(csrfToken),
			`<input name="title" placeholder="Title" value="`, esc(post.Title), `"/>`,
			`<input name="slug" placeholder="Slug" value="`, esc(post.Slug), `"/>`,
			`<input name="subtitle" placeholder="Subtitle" value="`, esc(post.Subtitle), `"/>`,
			`<input name="author" placeholder="Author" value="`, esc(post.Author), `"/>`,
			`<input name="banner" placeholder="Banner URL" value="`, esc(post.Banner), `"/>`,
			`<input name="tags" placeholder="Tags" value="`, esc(pubfront.JoinTags(post.Tags)), `"/>`,
			`<textarea name="content" rows="20">`, esc(content), `</textarea>`,
			`<label><input type="checkbox" name="published" value="1"`, checked, `/> Published</label>`,
			`<button type="submit">Save</button></form>`)
		return w.err
	})
}

func adminImages(images []pubfront.Image, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.s(`<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">`, csrfField(csrfToken),
			`<input type="file" name="image" accept="image/*"/><button type="submit">Upload</button></form><ul>`)
		for _, img := range images {
			w.s(`<li><code>`, esc(pubfront.BannerURL(img.Filename)), `</code> `,
				strconv.Itoa(img.Width), `×`, strconv.Itoa(img.Height), `</li>`)
		}
		w.s(`</ul>`)
		return w.err
	})
}

func marshalContent(doc richtext.Document) (string, error) {
	if len(doc) == 0 {
		return "[]", nil
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
