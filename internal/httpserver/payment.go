package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvoronov/storefront/internal/middleware"
	"github.com/mvoronov/storefront/internal/repo"
	"github.com/mvoronov/storefront/internal/service"
)

type PaymentHandler struct {
	Svc *service.PaymentService
}

func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Currency string `json:"currency"`
	}
	_ = c.Bind(&req)

	payment, clientSecret, err := h.Svc.CreateIntent(
		c.Request().Context(), orderID, userID, claims.HasRole(repo.RoleAdmin), req.Currency)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"payment":       payment,
		"client_secret": clientSecret,
	})
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	var req struct {
		IntentID        string `json:"intent_id"`
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.IntentID == "" || req.PaymentMethodID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "intent_id and payment_method_id required")
	}

	payment, err := h.Svc.ConfirmIntent(c.Request().Context(), req.IntentID, req.PaymentMethodID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payment)
}
