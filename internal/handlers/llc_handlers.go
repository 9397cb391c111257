package handlers

import (
	"fmt"
	"net/http"

	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
)

const llcListPath = "/llcs/"

type LLCHandlers struct {
	llcService services.LLCService
	page       *Page
}

func NewLLCHandlers(llcService services.LLCService, page *Page) *LLCHandlers {
	return &LLCHandlers{llcService: llcService, page: page}
}

// ListLLCs lists LLCs by name with their filing status.
func (h *LLCHandlers) ListLLCs(c echo.Context) error {
	llcs, err := h.llcService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.page.List(c, models.EntityLLC, "llcs", llcViews(llcs, h.page.Today()))
}

func (h *LLCHandlers) NewLLCForm(c echo.Context) error {
	return h.page.Render(c, http.StatusOK, echo.Map{"form": services.NewLLCForm(nil)})
}

func (h *LLCHandlers) CreateLLC(c echo.Context) error {
	var form services.LLCForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	llc, err := h.llcService.Create(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, llcListPath, fmt.Sprintf("LLC '%s' was added successfully.", llc))
}

func (h *LLCHandlers) EditLLCForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	llc, err := h.llcService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.page.Render(c, http.StatusOK, echo.Map{"object": llc, "form": services.NewLLCForm(llc)})
}

func (h *LLCHandlers) UpdateLLC(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form services.LLCForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	llc, err := h.llcService.Update(c.Request().Context(), id, &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, llcListPath, fmt.Sprintf("LLC '%s' was updated successfully.", llc))
}

func (h *LLCHandlers) ConfirmDeleteLLC(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	llc, err := h.llcService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.page.Render(c, http.StatusOK, echo.Map{
		"object":  llc,
		"confirm": fmt.Sprintf("Are you sure you want to delete LLC '%s'?", llc),
	})
}

func (h *LLCHandlers) DeleteLLC(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	llc, err := h.llcService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, llcListPath, fmt.Sprintf("LLC '%s' was deleted successfully.", llc))
}
