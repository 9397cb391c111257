package handlers

import (
	"fmt"
	"net"

	"renttracker/internal/middleware"
	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Dependencies is everything the router needs to build its handlers.
type Dependencies struct {
	Auth         services.AuthService
	RBAC         services.RBACService
	LLCs         services.LLCService
	Properties   services.PropertyService
	Tenants      services.TenantService
	Payments     services.PaymentService
	AuditLogs    services.AuditLogsService
	Health       *HealthHandlers
	Page         *Page
	CookieSecure bool

	// TrustedProxies may set X-Forwarded-For. Without any, the peer address
	// is the client address.
	TrustedProxies []*net.IPNet
}

// NewRouter builds the echo instance with every route registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.IPExtractor = clientIPExtractor(deps.TrustedProxies)

	e.Pre(echoMiddleware.AddTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger())

	Register(e, deps)
	return e
}

// Register mounts all application routes on e.
func Register(e *echo.Echo, deps Dependencies) {
	sessions := middleware.NewSessionMiddleware(deps.Auth)
	rbac := middleware.NewRBACMiddleware()
	login := sessions.RequireLogin()

	if deps.Health != nil {
		e.GET("/health/", deps.Health.HealthCheck)
	}

	home := NewHomeHandlers(deps.LLCs, deps.Page)
	e.GET("/", home.Home, sessions.Optional())
	e.GET("/dashboard/", home.Dashboard, login, rbac.Require(models.PermView, models.EntityLLC))

	auth := NewAuthHandlers(deps.Auth, deps.Page, deps.CookieSecure)
	e.GET("/login/", auth.LoginForm)
	e.POST("/login/", auth.Login)
	e.POST("/logout/", auth.Logout, login)

	llcs := NewLLCHandlers(deps.LLCs, deps.Page)
	crud(e, login, rbac, models.EntityLLC, "/llcs", crudHandlers{
		list: llcs.ListLLCs, newForm: llcs.NewLLCForm, create: llcs.CreateLLC,
		editForm: llcs.EditLLCForm, update: llcs.UpdateLLC,
		confirmDelete: llcs.ConfirmDeleteLLC, remove: llcs.DeleteLLC,
	})

	properties := NewPropertyHandlers(deps.Properties, deps.Page)
	crud(e, login, rbac, models.EntityProperty, "/properties", crudHandlers{
		list: properties.ListProperties, newForm: properties.NewPropertyForm, create: properties.CreateProperty,
		editForm: properties.EditPropertyForm, update: properties.UpdateProperty,
		confirmDelete: properties.ConfirmDeleteProperty, remove: properties.DeleteProperty,
	})

	tenants := NewTenantHandlers(deps.Tenants, deps.Page)
	crud(e, login, rbac, models.EntityTenant, "/tenants", crudHandlers{
		list: tenants.ListTenants, newForm: tenants.NewTenantForm, create: tenants.CreateTenant,
		editForm: tenants.EditTenantForm, update: tenants.UpdateTenant,
		confirmDelete: tenants.ConfirmDeleteTenant, remove: tenants.DeleteTenant,
	})
	e.GET("/tenants/:id/document/", tenants.DownloadDocument,
		login, rbac.Require(models.PermView, models.EntityTenant))
	e.POST("/tenants/:id/document/", tenants.UploadDocument,
		login, rbac.Require(models.PermChange, models.EntityTenant),
		echoMiddleware.BodyLimit(fmt.Sprintf("%dK", (services.MaxDocumentSize>>10)+64)))

	payments := NewPaymentHandlers(deps.Payments, deps.Page)
	e.GET("/payments/export/", payments.ExportPayments, login, rbac.Require(models.PermView, models.EntityPayment))
	crud(e, login, rbac, models.EntityPayment, "/payments", crudHandlers{
		list: payments.ListPayments, newForm: payments.NewPaymentForm, create: payments.CreatePayment,
		editForm: payments.EditPaymentForm, update: payments.UpdatePayment,
		confirmDelete: payments.ConfirmDeletePayment, remove: payments.DeletePayment,
	})

	auditLogs := NewAuditLogsHandlers(deps.AuditLogs, deps.Page)
	e.GET("/audit-logs/", auditLogs.ListAuditLogs, login, rbac.Require(models.PermView, models.EntityAuditLog))
}

// clientIPExtractor decides which address c.RealIP reports. Forwarding
// headers are only honoured when they arrive through a trusted proxy, so
// clients cannot pick their own login rate limit key.
func clientIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

type crudHandlers struct {
	list, newForm, create, editForm, update, confirmDelete, remove echo.HandlerFunc
}

func crud(e *echo.Echo, login echo.MiddlewareFunc, rbac *middleware.RBACMiddleware, entity, prefix string, h crudHandlers) {
	g := e.Group(prefix, login)
	g.GET("/", h.list, rbac.Require(models.PermView, entity))

	add := rbac.Require(models.PermAdd, entity)
	g.GET("/add/", h.newForm, add)
	g.POST("/add/", h.create, add)

	change := rbac.Require(models.PermChange, entity)
	g.GET("/:id/edit/", h.editForm, change)
	g.POST("/:id/edit/", h.update, change)

	del := rbac.Require(models.PermDelete, entity)
	g.GET("/:id/delete/", h.confirmDelete, del)
	g.POST("/:id/delete/", h.remove, del)
}
