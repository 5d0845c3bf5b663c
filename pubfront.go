// Package pubfront is a blog front-end built with Go, Echo, and templ that
// serves posts written as structured rich text. It estimates reading times,
// renders rich text to sanitized HTML, supports previewing drafts, and
// provides an admin dashboard, RSS, and sitemap out of the box.
//
// Users provide their own templ templates via the ViewFuncs struct,
// and pubfront handles all the handler logic, middleware, and database operations.
package pubfront

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfront/richtext"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home             func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	Post             func(page PostPage) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []Post, message string, csrfToken string) templ.Component
	AdminFormPartial func(post Post, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central pubfront application. It wires together the store,
// cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	loginLimiter   *AttemptLimiter
	previewLimiter *AttemptLimiter
	estimator      *richtext.Estimator
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new pubfront App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup validates the configuration, opens the store and registers
// middleware and routes without starting the server.
func (a *App) Setup() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("pubfront: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pubfront: SessionSecret is required")
	}

	est := a.estimator
	if est == nil {
		e, err := a.Config.Estimator()
		if err != nil {
			return err
		}
		est = &e
	}
	if est.WordsPerMinute <= 0 {
		return fmt.Errorf("pubfront: words per minute: %w", richtext.ErrInvalidArgument)
	}
	a.estimator = est

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pubfront: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL, *a.estimator)

	a.loginLimiter = NewAttemptLimiter(5, time.Minute)
	a.previewLimiter = NewAttemptLimiter(10, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("pubfront: reading time at %d wpm", a.estimator.WordsPerMinute)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	// Preview mode
	e.GET("/api/preview", a.handlePreview)
	e.GET("/api/exit-preview", handleExitPreview)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.previewLimiter != nil {
		a.previewLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
