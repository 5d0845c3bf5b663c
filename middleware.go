package pubfront

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'"

func isStaticPath(path string) bool { return strings.HasPrefix(path, "/public/") }

func isAPIPath(path string) bool { return strings.HasPrefix(path, "/api/") }

func isAdminPath(path string) bool { return strings.HasPrefix(path, "/admin") }

// isFeedPath matches the machine-readable documents served without a
// trailing slash.
func isFeedPath(path string) bool {
	return path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt"
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   5,
		Skipper: func(c echo.Context) bool { return isStaticPath(c.Request().URL.Path) },
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	// Preview endpoints are plain GETs driven by the CMS and carry no form.
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		Skipper:        func(c echo.Context) bool { return isAPIPath(c.Request().URL.Path) },
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return isStaticPath(path) || isAPIPath(path) || isFeedPath(path)
		},
	}))

	e.Use(a.cacheControl)
}

// cacheControl sets Cache-Control before the handler runs. Pages are cached
// for as long as the post cache keeps them; anything seen in preview mode is
// never stored.
func (a *App) cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	pageMaxAge := "public, max-age=" + strconv.Itoa(int(a.Config.PostCacheTTL.Seconds()))
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		var value string
		switch {
		case isStaticPath(path):
			value = "public, max-age=31536000, immutable"
		case isAdminPath(path), isAPIPath(path), IsPreview(c):
			value = "no-store"
		case isFeedPath(path):
			value = "public, max-age=86400"
		default:
			value = pageMaxAge
		}
		c.Response().Header().Set("Cache-Control", value)
		return next(c)
	}
}
