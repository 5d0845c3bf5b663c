package pubfront

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handlePreview enters preview mode when token matches the configured
// PreviewSecret and redirects to the previewed document, or to the home
// page when the document cannot be resolved. The preview cookie lasts for
// the browser session.
func (a *App) handlePreview(c echo.Context) error {
	ip := c.RealIP()
	if !a.previewLimiter.Check(ip) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "Too many attempts"})
	}
	token := c.QueryParam("token")
	secret := a.Config.PreviewSecret
	if secret == "" || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		a.previewLimiter.Record(ip)
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
	}

	redirect := "/"
	if slug := c.QueryParam("documentId"); slug != "" {
		post, err := a.Store.GetPostAny(slug)
		switch {
		case err == nil:
			redirect = post.Link + "/"
		case !errors.Is(err, ErrNotFound):
			return err
		}
	}

	if err := a.setPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, redirect)
}

func handleExitPreview(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, "/")
}
