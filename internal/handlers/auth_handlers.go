package handlers

import (
	"net/http"
	"strings"
	"time"

	"renttracker/internal/middleware"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandlers serves the login and logout endpoints.
type AuthHandlers struct {
	authService  services.AuthService
	page         *Page
	cookieSecure bool
}

func NewAuthHandlers(authService services.AuthService, page *Page, cookieSecure bool) *AuthHandlers {
	return &AuthHandlers{authService: authService, page: page, cookieSecure: cookieSecure}
}

// LoginRequest is the login form. Next is where to go after signing in.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

func (h *AuthHandlers) LoginForm(c echo.Context) error {
	return h.page.Render(c, http.StatusOK, echo.Map{
		"form": LoginRequest{Next: safeNext(c.QueryParam("next"))},
	})
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Next == "" {
		req.Next = c.QueryParam("next")
	}
	// never echo the password back
	c.Set(formKey, LoginRequest{Username: req.Username, Next: req.Next})

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ve := services.NewValidationError()
			ve.Add("__all__", "Please enter a correct username and password. Note that both fields may be case-sensitive.")
			return ve
		}
		return err
	}

	c.SetCookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.Redirect(http.StatusSeeOther, safeNext(req.Next))
}

func (h *AuthHandlers) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return redirectWithFlash(c, "/", "You have been signed out.")
}

func (h *AuthHandlers) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// safeNext only allows local paths as a post-login destination.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
