package handlers

import (
	"fmt"
	"net/http"

	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const tenantListPath = "/tenants/"

type TenantHandlers struct {
	tenantService services.TenantService
	page          *Page
}

func NewTenantHandlers(tenantService services.TenantService, page *Page) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService, page: page}
}

func (h *TenantHandlers) ListTenants(c echo.Context) error {
	tenants, err := h.tenantService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.page.List(c, models.EntityTenant, "tenants", tenants)
}

func (h *TenantHandlers) renderForm(c echo.Context, data echo.Map) error {
	choices, err := h.tenantService.Choices(c.Request().Context())
	if err != nil {
		return err
	}
	data["choices"] = choices
	return h.page.Render(c, http.StatusOK, data)
}

func (h *TenantHandlers) NewTenantForm(c echo.Context) error {
	return h.renderForm(c, echo.Map{"form": services.NewTenantForm(nil)})
}

func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	var form services.TenantForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	tenant, err := h.tenantService.Create(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, tenantListPath, fmt.Sprintf("Tenant '%s' was added successfully.", tenant))
}

func (h *TenantHandlers) EditTenantForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tenant, err := h.tenantService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.renderForm(c, echo.Map{"object": tenant, "form": services.NewTenantForm(tenant)})
}

func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form services.TenantForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	tenant, err := h.tenantService.Update(c.Request().Context(), id, &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, tenantListPath, fmt.Sprintf("Tenant '%s' was updated successfully.", tenant))
}

func (h *TenantHandlers) ConfirmDeleteTenant(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tenant, err := h.tenantService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.page.Render(c, http.StatusOK, echo.Map{
		"object":  tenant,
		"confirm": fmt.Sprintf("Are you sure you want to delete tenant '%s'?", tenant),
	})
}

func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tenant, err := h.tenantService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, tenantListPath, fmt.Sprintf("Tenant '%s' was deleted successfully.", tenant))
}

// DownloadDocument redirects to a short-lived link for the tenant's ID scan.
func (h *TenantHandlers) DownloadDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	url, err := h.tenantService.DocumentURL(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// UploadDocument accepts a multipart "document" file.
func (h *TenantHandlers) UploadDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("document")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			ve := services.NewValidationError()
			ve.Add("document", "No file was submitted.")
			return ve
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid upload")
	}
	file, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "could not open upload")
	}
	defer file.Close()

	tenant, err := h.tenantService.AttachDocument(c.Request().Context(), id, &services.Document{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}
	return redirectWithFlash(c, tenantListPath, fmt.Sprintf("Identification document for '%s' was uploaded.", tenant))
}
