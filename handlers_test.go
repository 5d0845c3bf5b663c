package pubfront

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
)

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func stubViews() ViewFuncs {
	return ViewFuncs{
		Home: func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component {
			var slugs []string
			for _, p := range posts {
				slugs = append(slugs, p.Slug)
			}
			return text("home:%s tags:%s", strings.Join(slugs, ","), strings.Join(tags, ","))
		},
		Post: func(pg PostPage) templ.Component {
			return text("post:%s read:%s prev:%s next:%s preview:%t",
				pg.Post.Slug, ReadTimeLabel(pg.Post.ReadTime), refSlug(pg.Prev), refSlug(pg.Next), pg.Preview)
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return text("login error:%t", showError)
		},
		AdminDashboard: func(posts []Post, message string, csrfToken string) templ.Component {
			return text("dashboard:%d msg:%s", len(posts), message)
		},
		AdminFormPartial: func(post Post, csrfToken string) templ.Component {
			return text("form:%s", post.Slug)
		},
		AdminImages: func(images []Image, csrfToken string) templ.Component {
			return text("images:%d", len(images))
		},
		NotFound:    func() templ.Component { return text("not found") },
		ServerError: func() templ.Component { return text("server error") },
	}
}

func setupTestApp(t *testing.T) *App {
	t.Helper()
	cfg := SiteConfig{
		Name:          "Test Blog",
		URL:           "http://example.com",
		DatabasePath:  filepath.Join(t.TempDir(), "blog.db"),
		AdminPassword: "hunter2",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		PreviewSecret: "preview-token",
	}
	a := New(cfg, stubViews(), WithStaticDir(t.TempDir()))
	if err := a.Setup(); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	draft := testPost("draft", day.Add(3*time.Hour))
	draft.Published = false
	draft.Content = doc("", 450)
	mustSave(t, a.Store,
		testPost("first", day, "go"),
		testPost("second", day.Add(time.Hour), "go", "web"),
		draft,
	)
	return a
}

// client replays cookies between requests.
type client struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, a *App) *client {
	return &client{t: t, app: a, cookies: make(map[string]*http.Cookie)}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	cl.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck
	}
	return rec
}

func (cl *client) get(target string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (cl *client) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	if ck, ok := cl.cookies["_csrf"]; ok {
		form.Set("_csrf", ck.Value)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func TestHomeListsPublishedPosts(t *testing.T) {
	a := setupTestApp(t)
	rec := newClient(t, a).get("/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got, want := rec.Body.String(), "home:second,first tags:go,web"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestHomeFiltersByTag(t *testing.T) {
	a := setupTestApp(t)
	rec := newClient(t, a).get("/?tag=web")
	if !strings.HasPrefix(rec.Body.String(), "home:second ") {
		t.Errorf("body = %q, want only second", rec.Body.String())
	}
}

func TestPostPage(t *testing.T) {
	a := setupTestApp(t)
	rec := newClient(t, a).get("/blog/first/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := "post:first read:1 min prev: next:second preview:false"
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=1800" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestPostPageRedirectsWithoutTrailingSlash(t *testing.T) {
	a := setupTestApp(t)
	rec := newClient(t, a).get("/blog/first")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/blog/first/" {
		t.Errorf("Location = %q", loc)
	}
}

func TestNotFound(t *testing.T) {
	a := setupTestApp(t)
	cl := newClient(t, a)
	for _, target := range []string{"/blog/missing/", "/blog/draft/", "/nowhere/"} {
		rec := cl.get(target)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", target, rec.Code)
		}
		if rec.Body.String() != "not found" {
			t.Errorf("GET %s body = %q", target, rec.Body.String())
		}
	}
}

func TestBlogRedirect(t *testing.T) {
	a := setupTestApp(t)
	rec := newClient(t, a).get("/blog")
	if rec.Code != http.StatusMovedPermanently {
		t.Errorf("status = %d, want 301", rec.Code)
	}
}

func TestPreviewRejectsBadToken(t *testing.T) {
	a := setupTestApp(t)
	cl := newClient(t, a)
	for _, target := range []string{"/api/preview", "/api/preview?token=wrong&documentId=draft"} {
		rec := cl.get(target)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s status = %d, want 401", target, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["message"] != "Invalid token" {
			t.Errorf("message = %q, want %q", body["message"], "Invalid token")
		}
		if _, ok := cl.cookies[previewSessionName]; ok {
			t.Errorf("GET %s set a preview session", target)
		}
	}
}

func TestPreviewRateLimited(t *testing.T) {
	a := setupTestApp(t)
	cl := newClient(t, a)
	for i := 0; i < 10; i++ {
		cl.get("/api/preview?token=wrong")
	}
	if rec := cl.get("/api/preview?token=preview-token"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestPreviewRedirects(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"token=preview-token&documentId=draft", "/blog/draft/"},
		{"token=preview-token&documentId=first", "/blog/first/"},
		{"token=preview-token&documentId=missing", "/"},
		{"token=preview-token", "/"},
	}
	for _, tt := range tests {
		a := setupTestApp(t)
		cl := newClient(t, a)
		rec := cl.get("/api/preview?" + tt.query)
		if rec.Code != http.StatusFound {
			t.Fatalf("%s: status = %d, want 302", tt.query, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != tt.want {
			t.Errorf("%s: Location = %q, want %q", tt.query, loc, tt.want)
		}
		ck, ok := cl.cookies[previewSessionName]
		if !ok {
			t.Fatalf("%s: preview session cookie not set", tt.query)
		}
		if ck.MaxAge != 0 || !ck.Expires.IsZero() {
			t.Errorf("%s: preview cookie MaxAge=%d Expires=%v, want a browser-session cookie", tt.query, ck.MaxAge, ck.Expires)
		}
		if !ck.HttpOnly {
			t.Errorf("%s: preview cookie should be HttpOnly", tt.query)
		}
	}
}

func TestPreviewShowsDraftsUntilExit(t *testing.T) {
	a := setupTestApp(t)
	cl := newClient(t, a)
	cl.get("/api/preview?token=preview-token&documentId=draft")

	rec := cl.get("/blog/draft/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := "post:draft read:3 min prev: next: preview:true"
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}

	if cc := cl.get("/").Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("home in preview Cache-Control = %q, want no-store", cc)
	}

	rec = cl.get("/api/exit-preview")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("exit status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("exit Location = %q, want /", loc)
	}
	if rec := cl.get("/blog/draft/"); rec.Code != http.StatusNotFound {
		t.Errorf("after exit status = %d, want 404", rec.Code)
	}
}

func TestFeed(t *testing.T) {
	a := setupTestApp(t)
	rec := newClient(t, a).get("/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	var feed rssXML
	if err := xml.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if feed.Channel.Title != "Test Blog" {
		t.Errorf("channel title = %q", feed.Channel.Title)
	}
	if len(feed.Channel.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(feed.Channel.Items))
	}
	item := feed.Channel.Items[0]
	if item.Link != "http://example.com/blog/second/" {
		t.Errorf("item link = %q", item.Link)
	}
	if item.Author != "Ada" {
		t.Errorf("item author = %q", item.Author)
	}
	if !strings.HasPrefix(item.Description, "word word") {
		t.Errorf("item description = %q, want body excerpt", item.Description)
	}
}

func TestSitemap(t *testing.T) {
	a := setupTestApp(t)
	rec := newClient(t, a).get("/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var sm sitemapURLSet
	if err := xml.Unmarshal(rec.Body.Bytes(), &sm); err != nil {
		t.Fatalf("decode sitemap: %v", err)
	}
	var locs []string
	for _, u := range sm.URLs {
		locs = append(locs, u.Loc)
	}
	want := "http://example.com http://example.com/blog/second/ http://example.com/blog/first/"
	if got := strings.Join(locs, " "); got != want {
		t.Errorf("locs = %q, want %q", got, want)
	}
}

func TestAdminLoginAndSave(t *testing.T) {
	a := setupTestApp(t)
	cl := newClient(t, a)

	if rec := cl.get("/admin/"); rec.Body.String() != "login error:false" {
		t.Fatalf("GET /admin/ body = %q", rec.Body.String())
	}
	if rec := cl.postForm("/admin/login/", url.Values{"password": {"nope"}}); rec.Body.String() != "login error:true" {
		t.Fatalf("bad login body = %q", rec.Body.String())
	}
	rec := cl.postForm("/admin/login/", url.Values{"password": {"hunter2"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	if ck := cl.cookies[adminSessionName]; ck == nil || ck.MaxAge != adminSessionMaxAge {
		t.Errorf("admin cookie = %+v, want MaxAge %d", ck, adminSessionMaxAge)
	}
	if rec := cl.get("/admin/"); rec.Body.String() != "dashboard:3 msg:" {
		t.Fatalf("dashboard body = %q", rec.Body.String())
	}

	// Warm the cache so the save has to invalidate it.
	cl.get("/")

	content := `[{"heading":"Hello","body":[{"type":"paragraph","text":"One two three"}]}]`
	rec = cl.postForm("/admin/save/", url.Values{
		"title":     {"Fresh Post"},
		"tags":      {"Go, news"},
		"content":   {content},
		"published": {"1"},
	})
	if rec.Body.String() != "dashboard:4 msg:saved" {
		t.Fatalf("save body = %q", rec.Body.String())
	}

	post, err := a.Store.GetPost("fresh-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if len(post.Content) != 1 || post.Content[0].Heading != "Hello" {
		t.Errorf("Content = %+v", post.Content)
	}
	if rec := cl.get("/blog/fresh-post/"); rec.Code != http.StatusOK {
		t.Errorf("new post status = %d, want 200", rec.Code)
	}

	rec = cl.postForm("/admin/save/", url.Values{"title": {"Broken"}, "content": {"not json"}})
	if rec.Code != http.StatusSeeOther || !strings.Contains(rec.Header().Get("Location"), "msg=Content") {
		t.Errorf("invalid content got %d to %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAdminRequiresCSRF(t *testing.T) {
	a := setupTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader("password=hunter2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestSetupRequiresSecrets(t *testing.T) {
	tests := []SiteConfig{
		{SessionSecret: "s"},
		{AdminPassword: "p"},
		{AdminPassword: "p", SessionSecret: "s", WordCounting: "bogus"},
		{AdminPassword: "p", SessionSecret: "s", WordsPerMinute: -1},
	}
	for i, cfg := range tests {
		cfg.DatabasePath = filepath.Join(t.TempDir(), "blog.db")
		a := New(cfg, stubViews())
		if err := a.Setup(); err == nil {
			t.Errorf("case %d: Setup succeeded, want error", i)
		}
		a.Close()
	}
}

func TestPreviewRedirectEscapesSlug(t *testing.T) {
	a := setupTestApp(t)
	mustSave(t, a.Store, testPost("a b?c", day))

	rec := newClient(t, a).get("/api/preview?token=preview-token&documentId=" + url.QueryEscape("a b?c"))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/blog/a%20b%3Fc/" {
		t.Errorf("Location = %q, want %q", loc, "/blog/a%20b%3Fc/")
	}
}
