package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"renttracker/internal/common"
	"renttracker/internal/models"
	"renttracker/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "session"
	LoginPath     = "/login/"

	principalKey = "principal"
)

// SessionMiddleware resolves the session cookie into a principal.
type SessionMiddleware struct {
	authService services.AuthService
}

func NewSessionMiddleware(authService services.AuthService) *SessionMiddleware {
	return &SessionMiddleware{authService: authService}
}

func (m *SessionMiddleware) config() echojwt.Config {
	return echojwt.Config{
		TokenLookup: "cookie:" + SessionCookie,
		ContextKey:  principalKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return m.authService.ParseSession(c.Request().Context(), auth)
		},
		SuccessHandler: func(c echo.Context) {
			if p, ok := c.Get(principalKey).(*models.Principal); ok {
				c.SetRequest(c.Request().WithContext(common.WithPrincipal(c.Request().Context(), p)))
			}
		},
	}
}

// RequireLogin sends anonymous visitors to the login page, remembering where they were going.
// Failures other than a missing or rejected session are returned as errors.
func (m *SessionMiddleware) RequireLogin() echo.MiddlewareFunc {
	cfg := m.config()
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		if errors.Is(err, echojwt.ErrJWTMissing) || errors.Is(err, services.ErrInvalidSession) {
			return c.Redirect(http.StatusFound, LoginRedirect(c.Request().URL.RequestURI()))
		}
		return err
	}
	return echojwt.WithConfig(cfg)
}

// Optional attaches the principal when a valid session exists and lets
// anonymous requests through untouched.
func (m *SessionMiddleware) Optional() echo.MiddlewareFunc {
	cfg := m.config()
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return nil
	}
	return echojwt.WithConfig(cfg)
}

// LoginRedirect builds /login/?next=<path>, leaving slashes readable.
func LoginRedirect(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// PrincipalFromContext returns the signed-in principal of the request, if any.
func PrincipalFromContext(c echo.Context) *models.Principal {
	p, _ := common.PrincipalFromContext(c.Request().Context())
	return p
}
