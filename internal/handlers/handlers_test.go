package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"renttracker/internal/middleware"
	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLLCService struct {
	mock.Mock
}

func (m *MockLLCService) List(ctx context.Context) ([]*models.LLC, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.LLC), args.Error(1)
}

func (m *MockLLCService) Get(ctx context.Context, id uuid.UUID) (*models.LLC, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LLC), args.Error(1)
}

func (m *MockLLCService) Create(ctx context.Context, form *services.LLCForm) (*models.LLC, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LLC), args.Error(1)
}

func (m *MockLLCService) Update(ctx context.Context, id uuid.UUID, form *services.LLCForm) (*models.LLC, error) {
	args := m.Called(ctx, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LLC), args.Error(1)
}

func (m *MockLLCService) Delete(ctx context.Context, id uuid.UUID) (*models.LLC, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LLC), args.Error(1)
}

func (m *MockLLCService) FilingReport(ctx context.Context, today time.Time) ([]services.FilingReportRow, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]services.FilingReportRow), args.Error(1)
}

// stubAuth knows a single session token and a single password.
type stubAuth struct {
	principal  *models.Principal
	loggedOut  []string
	clientIPs  []string
}

const (
	goodToken    = "session-token"
	goodPassword = "correct horse"
)

func (s *stubAuth) Login(ctx context.Context, username, password, clientIP string) (*services.Session, error) {
	s.clientIPs = append(s.clientIPs, clientIP)
	if username != s.principal.Username || password != goodPassword {
		return nil, services.ErrInvalidCredentials
	}
	return &services.Session{Token: goodToken, ExpiresAt: time.Now().Add(time.Hour), Principal: s.principal}, nil
}

func (s *stubAuth) ParseSession(ctx context.Context, token string) (*models.Principal, error) {
	if token != goodToken {
		return nil, services.ErrInvalidSession
	}
	return s.principal, nil
}

func (s *stubAuth) Logout(ctx context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testApp struct {
	e    *echo.Echo
	auth *stubAuth
	llcs *MockLLCService
}

func newTestApp(t *testing.T, perms ...string) *testApp {
	t.Helper()
	return newTestAppBehindProxies(t, nil, perms...)
}

func newTestAppBehindProxies(t *testing.T, proxies []*net.IPNet, perms ...string) *testApp {
	t.Helper()
	auth := &stubAuth{
		principal: models.NewPrincipal(&models.User{ID: uuid.New(), Username: "alice", FirstName: "Alice"}, perms),
	}
	llcs := new(MockLLCService)
	t.Cleanup(func() { llcs.AssertExpectations(t) })

	e := NewRouter(Dependencies{
		Auth:   auth,
		RBAC:   services.NewRBACService(),
		LLCs:   llcs,
		Health: NewHealthHandlers("test", map[string]Pinger{"database": pinger{}}),
		Page:   NewPage(services.NewRBACService(), time.UTC),

		TrustedProxies: proxies,
	})
	return &testApp{e: e, auth: auth, llcs: llcs}
}

func (a *testApp) do(method, target string, body url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func session() *http.Cookie {
	return &http.Cookie{Name: middleware.SessionCookie, Value: goodToken}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestProtectedRoute_AnonymousRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/properties/add/", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/?next=/properties/add/", rec.Header().Get(echo.HeaderLocation))
}

func TestProtectedRoute_MissingTrailingSlashIsAdded(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/llcs", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/?next=/llcs/", rec.Header().Get(echo.HeaderLocation))
}

func TestProtectedRoute_WithoutPermissionIsForbidden(t *testing.T) {
	app := newTestApp(t, "view_llc")

	rec := app.do(http.MethodGet, "/properties/add/", nil, session())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "FORBIDDEN", body["error"].(map[string]any)["code"])
}

func TestHome_AnonymousGetsWelcomeWithoutNavigation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Welcome to RentTracker!", body["welcome"])
	assert.Empty(t, body["navigation"])
	assert.NotContains(t, body, "user")
}

func TestHome_NavigationFollowsPermissions(t *testing.T) {
	app := newTestApp(t, "view_llc", "view_tenant")

	rec := app.do(http.MethodGet, "/", nil, session())

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Navigation []services.NavLink `json:"navigation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	var paths []string
	for _, l := range body.Navigation {
		paths = append(paths, l.Path)
	}
	assert.Equal(t, []string{"/dashboard/", "/llcs/", "/tenants/"}, paths)
}

func TestDashboard_GreetsUserAndListsFilingStatus(t *testing.T) {
	app := newTestApp(t, "view_llc")
	app.llcs.On("List", mock.Anything).Return([]*models.LLC{{ID: uuid.New(), Name: "Acme"}}, nil)

	rec := app.do(http.MethodGet, "/dashboard/", nil, session())

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Alice", body["user_first_name"])
	llcs := body["llcs"].([]any)
	require.Len(t, llcs, 1)
	assert.Equal(t, "unknown", llcs[0].(map[string]any)["filing_status"])
}

func TestListLLCs_ActionsReflectPermissions(t *testing.T) {
	app := newTestApp(t, "view_llc", "add_llc")
	app.llcs.On("List", mock.Anything).Return([]*models.LLC{}, nil)

	rec := app.do(http.MethodGet, "/llcs/", nil, session())

	require.Equal(t, http.StatusOK, rec.Code)
	actions := decode(t, rec)["actions"].(map[string]any)
	assert.Equal(t, true, actions["can_add"])
	assert.Equal(t, false, actions["can_change"])
	assert.Equal(t, false, actions["can_delete"])
}

func TestCreateLLC_SuccessRedirectsWithFlash(t *testing.T) {
	app := newTestApp(t, "view_llc", "add_llc")
	app.llcs.On("Create", mock.Anything, &services.LLCForm{Name: "Acme", CreationDate: "2020-01-01"}).
		Return(&models.LLC{ID: uuid.New(), Name: "Acme"}, nil)

	rec := app.do(http.MethodPost, "/llcs/add/", url.Values{"name": {"Acme"}, "creation_date": {"2020-01-01"}}, session())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/llcs/", rec.Header().Get(echo.HeaderLocation))
	flash := findCookie(rec, flashCookie)
	require.NotNil(t, flash)

	// the next list response carries and clears the message
	app.llcs.On("List", mock.Anything).Return([]*models.LLC{}, nil)
	rec = app.do(http.MethodGet, "/llcs/", nil, session(), flash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LLC 'Acme' was added successfully.", decode(t, rec)["message"])
	cleared := findCookie(rec, flashCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestCreateLLC_ValidationErrorEchoesForm(t *testing.T) {
	app := newTestApp(t, "add_llc")
	ve := services.NewValidationError()
	ve.Add("name", "This field is required.")
	app.llcs.On("Create", mock.Anything, mock.Anything).Return(nil, ve)

	rec := app.do(http.MethodPost, "/llcs/add/", url.Values{"creation_date": {"2020-01-01"}}, session())

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	assert.Equal(t, "This field is required.", errBody["details"].(map[string]any)["name"])
	assert.Equal(t, "2020-01-01", body["form"].(map[string]any)["creation_date"])
}

func TestCreateLLC_DuplicateNameIsUniquenessConflict(t *testing.T) {
	app := newTestApp(t, "add_llc")
	app.llcs.On("Create", mock.Anything, mock.Anything).Return(nil, &services.ConflictError{
		Kind: services.ConflictUniqueness, Field: "name", Message: "LLC with this Name already exists.",
	})

	rec := app.do(http.MethodPost, "/llcs/add/", url.Values{"name": {"Acme"}, "creation_date": {"2020-01-01"}}, session())

	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "UNIQUENESS_CONFLICT", errBody["code"])
	assert.Equal(t, "LLC with this Name already exists.", errBody["details"].(map[string]any)["name"])
}

func TestDeleteLLC_WithPropertiesIsIntegrityConflict(t *testing.T) {
	app := newTestApp(t, "delete_llc")
	id := uuid.New()
	app.llcs.On("Delete", mock.Anything, id).Return(nil, &services.ConflictError{
		Kind: services.ConflictIntegrity, Message: "Cannot delete LLC 'Acme' because it owns properties.",
	})

	rec := app.do(http.MethodPost, "/llcs/"+id.String()+"/delete/", url.Values{}, session())

	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "INTEGRITY_CONFLICT", errBody["code"])
	assert.Equal(t, "Cannot delete LLC 'Acme' because it owns properties.", errBody["message"])
}

func TestEditLLC_UnknownAndMalformedIDsAreNotFound(t *testing.T) {
	app := newTestApp(t, "change_llc")
	id := uuid.New()
	app.llcs.On("Get", mock.Anything, id).Return(nil, services.ErrNotFound)

	rec := app.do(http.MethodGet, "/llcs/"+id.String()+"/edit/", nil, session())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/llcs/not-a-uuid/edit/", nil, session())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnexpectedErrorIsGeneric500(t *testing.T) {
	app := newTestApp(t, "view_llc")
	app.llcs.On("List", mock.Anything).Return([]*models.LLC{}, assert.AnError)

	rec := app.do(http.MethodGet, "/llcs/", nil, session())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestLogin_SuccessSetsCookieAndRedirectsToNext(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/login/", url.Values{
		"username": {"alice"}, "password": {goodPassword}, "next": {"/tenants/"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tenants/", rec.Header().Get(echo.HeaderLocation))
	cookie := findCookie(rec, middleware.SessionCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, goodToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestLogin_OffsiteNextFallsBackToHome(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/login/", url.Values{
		"username": {"alice"}, "password": {goodPassword}, "next": {"//evil.example/"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestLogin_BadCredentialsDoNotEchoPassword(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/login/", url.Values{"username": {"alice"}, "password": {"wrong"}})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["error"].(map[string]any)["details"], "__all__")
	assert.Equal(t, "alice", body["form"].(map[string]any)["username"])
	assert.Empty(t, body["form"].(map[string]any)["password"])
	assert.Nil(t, findCookie(rec, middleware.SessionCookie))
}

func TestLogout_RevokesAndClearsCookie(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/logout/", url.Values{}, session())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{goodToken}, app.auth.loggedOut)
	cookie := findCookie(rec, middleware.SessionCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandlers("test", map[string]Pinger{"database": pinger{}, "storage": nil})
		e := echo.New()
		e.GET("/health/", h.HealthCheck)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, map[string]string{"database": "healthy"}, status.Services)
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewHealthHandlers("test", map[string]Pinger{"database": pinger{}, "cache": pinger{err: assert.AnError}})
		e := echo.New()
		e.GET("/health/", h.HealthCheck)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, "unhealthy", status.Services["cache"])
	})
}

func postLoginFrom(app *testApp, remoteAddr, forwardedFor string) {
	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
	req.RemoteAddr = remoteAddr
	app.e.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLogin_ForwardedForIgnoredWithoutTrustedProxy(t *testing.T) {
	app := newTestApp(t)

	postLoginFrom(app, "198.51.100.7:5000", "203.0.113.1")
	postLoginFrom(app, "198.51.100.7:5001", "203.0.113.2")

	assert.Equal(t, []string{"198.51.100.7", "198.51.100.7"}, app.auth.clientIPs)
}

func TestLogin_ForwardedForHonouredFromTrustedProxy(t *testing.T) {
	_, proxy, err := net.ParseCIDR("198.51.100.0/24")
	require.NoError(t, err)
	app := newTestAppBehindProxies(t, []*net.IPNet{proxy})

	postLoginFrom(app, "198.51.100.7:5000", "203.0.113.1")
	postLoginFrom(app, "192.0.2.50:5000", "203.0.113.2")

	assert.Equal(t, []string{"203.0.113.1", "192.0.2.50"}, app.auth.clientIPs)
}
