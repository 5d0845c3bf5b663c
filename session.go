package pubfront

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Cookie sessions. The admin session lives for adminSessionMaxAge; the
// preview session is a browser-session cookie that ends when the browser
// closes, like a Next.js preview-data cookie.
const (
	adminSessionName   = "admin_session"
	previewSessionName = "preview_session"

	adminSessionMaxAge = 12 * 60 * 60

	adminFlag   = "authenticated"
	previewFlag = "preview"
)

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = a.cookieOptions(adminSessionMaxAge)
	return store
}

func (a *App) cookieOptions(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
}

func sessionFlag(c echo.Context, name, key string) bool {
	sess, err := session.Get(name, c)
	if err != nil {
		return false
	}
	on, ok := sess.Values[key].(bool)
	return ok && on
}

func setSessionFlag(c echo.Context, name, key string, opts *sessions.Options) error {
	sess, err := session.Get(name, c)
	if err != nil {
		return err
	}
	if opts != nil {
		sess.Options = opts
	}
	sess.Values[key] = true
	return sess.Save(c.Request(), c.Response())
}

func clearSession(c echo.Context, name string) error {
	sess, err := session.Get(name, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// IsAdmin checks if the current session is authenticated.
func IsAdmin(c echo.Context) bool {
	return sessionFlag(c, adminSessionName, adminFlag)
}

func setAdminSession(c echo.Context) error {
	return setSessionFlag(c, adminSessionName, adminFlag, nil)
}

func clearAdminSession(c echo.Context) error {
	return clearSession(c, adminSessionName)
}

// IsPreview reports whether the request carries an active preview session.
func IsPreview(c echo.Context) bool {
	return sessionFlag(c, previewSessionName, previewFlag)
}

func (a *App) setPreviewSession(c echo.Context) error {
	return setSessionFlag(c, previewSessionName, previewFlag, a.cookieOptions(0))
}

func clearPreviewSession(c echo.Context) error {
	return clearSession(c, previewSessionName)
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
