package handlers

import (
	"net/http"

	"renttracker/internal/middleware"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
)

type HomeHandlers struct {
	llcService services.LLCService
	page       *Page
}

func NewHomeHandlers(llcService services.LLCService, page *Page) *HomeHandlers {
	return &HomeHandlers{llcService: llcService, page: page}
}

// Home is public. Signed-in visitors also get their navigation.
func (h *HomeHandlers) Home(c echo.Context) error {
	return h.page.Render(c, http.StatusOK, echo.Map{"welcome": "Welcome to RentTracker!"})
}

// Dashboard greets the user and shows every LLC's filing status.
func (h *HomeHandlers) Dashboard(c echo.Context) error {
	llcs, err := h.llcService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.page.Render(c, http.StatusOK, echo.Map{
		"user_first_name": middleware.PrincipalFromContext(c).DisplayName(),
		"llcs":            llcViews(llcs, h.page.Today()),
	})
}
