package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuth accepts one token value.
type stubAuth struct {
	token     string
	principal *models.Principal
	parseErr  error
}

func (s *stubAuth) Login(ctx context.Context, username, password, clientIP string) (*services.Session, error) {
	return nil, services.ErrInvalidCredentials
}

func (s *stubAuth) ParseSession(ctx context.Context, token string) (*models.Principal, error) {
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	if token != s.token {
		return nil, services.ErrInvalidSession
	}
	return s.principal, nil
}

func (s *stubAuth) Logout(ctx context.Context, token string) error { return nil }

func newTestServer(perms ...string) (*echo.Echo, *stubAuth) {
	auth := &stubAuth{
		token:     "good",
		principal: models.NewPrincipal(&models.User{ID: uuid.New(), Username: "alice"}, perms),
	}
	sessions := NewSessionMiddleware(auth)
	rbac := NewRBACMiddleware()

	e := echo.New()
	e.GET("/properties/", func(c echo.Context) error {
		return c.String(http.StatusOK, PrincipalFromContext(c).Username)
	}, sessions.RequireLogin(), rbac.Require(models.PermView, models.EntityProperty))
	e.GET("/", func(c echo.Context) error {
		if p := PrincipalFromContext(c); p != nil {
			return c.String(http.StatusOK, p.Username)
		}
		return c.String(http.StatusOK, "anonymous")
	}, sessions.Optional())
	return e, auth
}

func do(e *echo.Echo, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireLogin_AnonymousRedirectsToLogin(t *testing.T) {
	e, _ := newTestServer("view_property")

	rec := do(e, "/properties/", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/?next=/properties/", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireLogin_InvalidTokenRedirects(t *testing.T) {
	e, _ := newTestServer("view_property")

	rec := do(e, "/properties/", "forged")

	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRequireLogin_SessionLookupFailureIsServerError(t *testing.T) {
	e, auth := newTestServer("view_property")
	auth.parseErr = errors.New("redis: connection refused")

	rec := do(e, "/properties/", "good")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
}

func TestRequirePermission_Forbidden(t *testing.T) {
	e, _ := newTestServer("view_llc")

	rec := do(e, "/properties/", "good")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermission_Allowed(t *testing.T) {
	e, _ := newTestServer("view_property")

	rec := do(e, "/properties/", "good")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestOptional(t *testing.T) {
	e, _ := newTestServer()

	assert.Equal(t, "anonymous", do(e, "/", "").Body.String())
	assert.Equal(t, "anonymous", do(e, "/", "forged").Body.String())
	assert.Equal(t, "alice", do(e, "/", "good").Body.String())
}

func TestLoginRedirect_KeepsSlashesAndEscapesQuery(t *testing.T) {
	assert.Equal(t, "/login/?next=/payments/export/", LoginRedirect("/payments/export/"))
	assert.Equal(t, "/login/?next=/audit-logs/%3Faction%3DAdded", LoginRedirect("/audit-logs/?action=Added"))
}
