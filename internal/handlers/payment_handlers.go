package handlers

import (
	"fmt"
	"net/http"

	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	paymentListPath = "/payments/"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type PaymentHandlers struct {
	paymentService services.PaymentService
	page           *Page
}

func NewPaymentHandlers(paymentService services.PaymentService, page *Page) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService, page: page}
}

func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	payments, err := h.paymentService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.page.List(c, models.EntityPayment, "payments", payments)
}

func (h *PaymentHandlers) renderForm(c echo.Context, data echo.Map) error {
	choices, err := h.paymentService.Choices(c.Request().Context())
	if err != nil {
		return err
	}
	data["choices"] = choices
	return h.page.Render(c, http.StatusOK, data)
}

func (h *PaymentHandlers) NewPaymentForm(c echo.Context) error {
	form := services.NewPaymentForm(nil)
	form.PaymentDate = h.page.Today().Format(models.DateLayout)
	return h.renderForm(c, echo.Map{"form": form})
}

func (h *PaymentHandlers) CreatePayment(c echo.Context) error {
	var form services.PaymentForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	payment, err := h.paymentService.Create(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, paymentListPath, fmt.Sprintf("%s was added successfully.", payment))
}

func (h *PaymentHandlers) EditPaymentForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	payment, err := h.paymentService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.renderForm(c, echo.Map{"object": payment, "form": services.NewPaymentForm(payment)})
}

func (h *PaymentHandlers) UpdatePayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form services.PaymentForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	payment, err := h.paymentService.Update(c.Request().Context(), id, &form)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, paymentListPath, fmt.Sprintf("%s was updated successfully.", payment))
}

func (h *PaymentHandlers) ConfirmDeletePayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	payment, err := h.paymentService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.page.Render(c, http.StatusOK, echo.Map{
		"object":  payment,
		"confirm": fmt.Sprintf("Are you sure you want to delete '%s'?", payment),
	})
}

func (h *PaymentHandlers) DeletePayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	payment, err := h.paymentService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return redirectWithFlash(c, paymentListPath, fmt.Sprintf("%s was deleted successfully.", payment))
}

// ExportPayments downloads every payment as a spreadsheet.
func (h *PaymentHandlers) ExportPayments(c echo.Context) error {
	data, err := h.paymentService.ExportWorkbook(c.Request().Context())
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("payments-%s.xlsx", h.page.Today().Format(models.DateLayout))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
