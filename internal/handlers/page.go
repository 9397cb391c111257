package handlers

import (
	"net/http"
	"time"

	"renttracker/internal/common"
	"renttracker/internal/middleware"
	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Page builds the parts every response shares: the signed-in user, the
// navigation they may follow and any pending notification.
type Page struct {
	rbac services.RBACService
	now  func() time.Time
}

func NewPage(rbac services.RBACService, loc *time.Location) *Page {
	return &Page{
		rbac: rbac,
		now:  func() time.Time { return time.Now().In(loc) },
	}
}

// Render writes data plus the shared page fields as JSON.
func (p *Page) Render(c echo.Context, status int, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	principal := middleware.PrincipalFromContext(c)
	data["navigation"] = p.rbac.Navigation(principal)
	if principal != nil {
		data["user"] = principal
	}
	if msg := popFlash(c); msg != "" {
		data["message"] = msg
	}
	return c.JSON(status, data)
}

// List renders a list page with the row actions the user may take on entity.
func (p *Page) List(c echo.Context, entity, key string, items any) error {
	return p.Render(c, http.StatusOK, echo.Map{
		key:       items,
		"actions": p.rbac.ListActions(middleware.PrincipalFromContext(c), entity),
	})
}

// Today is the current calendar date in the configured zone.
func (p *Page) Today() time.Time {
	return p.now()
}

// bindForm decodes a JSON or form-encoded body into form and keeps it for
// error responses.
func bindForm(c echo.Context, form any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	c.Set(formKey, form)
	return nil
}

// pathID parses the :id route parameter. A malformed id cannot match any row.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return id, nil
}

// llcView is an LLC with its filing status for today.
type llcView struct {
	*models.LLC
	FilingStatus models.FilingStatus `json:"filing_status"`
}

func llcViews(llcs []*models.LLC, today time.Time) []llcView {
	views := make([]llcView, 0, len(llcs))
	for _, l := range llcs {
		views = append(views, llcView{LLC: l, FilingStatus: l.FilingStatus(today)})
	}
	return views
}
