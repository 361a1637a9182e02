package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvoronov/storefront/internal/middleware"
	"github.com/mvoronov/storefront/internal/repo"
	"github.com/mvoronov/storefront/internal/service"
	"github.com/mvoronov/storefront/internal/util"
)

type OrderHandler struct {
	Svc *service.OrderService
}

func (h *OrderHandler) Create(c echo.Context) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}

	var req struct {
		Items []service.OrderItemInput `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(c.Request().Context(), userID, req.Items)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Get(c echo.Context) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), id, userID, claims.HasRole(repo.RoleAdmin))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) List(c echo.Context) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(c.Request().Context(), userID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}
