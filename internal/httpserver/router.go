package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvoronov/storefront/internal/middleware"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	OrderHandler    *OrderHandler
	PaymentHandler  *PaymentHandler

	JWTSecret   []byte
	JWTIssuer   string
	JWTAudience string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh-token", d.AuthHandler.Refresh)

	v1.GET("/categories", d.CategoryHandler.List)
	v1.GET("/categories/:id", d.CategoryHandler.Get)
	v1.GET("/products", d.ProductHandler.List)
	v1.GET("/products/:id", d.ProductHandler.Get)
	v1.GET("/search", d.ProductHandler.Search)

	authMw := middleware.RequireAuth(d.JWTSecret, d.JWTIssuer, d.JWTAudience)

	private := v1.Group("", authMw)
	private.POST("/logout", d.AuthHandler.Logout)
	private.POST("/orders", d.OrderHandler.Create)
	private.GET("/orders", d.OrderHandler.List)
	private.GET("/orders/:id", d.OrderHandler.Get)
	private.POST("/orders/:id/payment-intent", d.PaymentHandler.CreateIntent)
	private.POST("/payments/confirm", d.PaymentHandler.Confirm)

	admin := v1.Group("/admin", authMw, middleware.RequireAdmin)
	admin.POST("/categories", d.CategoryHandler.Create)
	admin.PUT("/categories/:id", d.CategoryHandler.Update)
	admin.DELETE("/categories/:id", d.CategoryHandler.Delete)
	admin.POST("/products", d.ProductHandler.Create)
	admin.PUT("/products/:id", d.ProductHandler.Update)
	admin.DELETE("/products/:id", d.ProductHandler.Delete)
}
