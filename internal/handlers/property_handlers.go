package handlers

import (
	"fmt"
	"net/http"

	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
)

const propertyListPath = "/properties/"

type PropertyHandlers struct {
	propertyService services.PropertyService
	page            *Page
}

func NewPropertyHandlers(propertyService services.PropertyService, page *Page) *PropertyHandlers {
	return &PropertyHandlers{propertyService: propertyService, page: page}
}

func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	properties, err := h.propertyService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.page.List(c, models.EntityProperty, "properties", properties)
}

// renderForm answers add and edit pages, which both need the select choices.
func (h *PropertyHandlers) renderForm(c echo.Context, data echo.Map) error {
	choices, err := h.propertyService.Choices(c.Request().Context())
	if err != nil {
		return err
	}
	data["choices"] = choices
	return h.page.Render(c, http.StatusOK, data)
}

func (h *PropertyHandlers) NewPropertyForm(c echo.Context) error {
	return h.renderForm(c, echo.Map{"form": services.NewPropertyForm(nil)})
}

func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	var form services.PropertyForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	property, err := h.propertyService.Create(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, propertyListPath, fmt.Sprintf("Property '%s' was added successfully.", property))
}

func (h *PropertyHandlers) EditPropertyForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	property, err := h.propertyService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.renderForm(c, echo.Map{"object": property, "form": services.NewPropertyForm(property)})
}

func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form services.PropertyForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	property, err := h.propertyService.Update(c.Request().Context(), id, &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, propertyListPath, fmt.Sprintf("Property '%s' was updated successfully.", property))
}

func (h *PropertyHandlers) ConfirmDeleteProperty(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	property, err := h.propertyService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.page.Render(c, http.StatusOK, echo.Map{
		"object":  property,
		"confirm": fmt.Sprintf("Are you sure you want to delete property '%s'?", property),
	})
}

func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	property, err := h.propertyService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, propertyListPath, fmt.Sprintf("Property '%s' was deleted successfully.", property))
}
