package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mvoronov/storefront/internal/logging"
	"github.com/mvoronov/storefront/internal/service"
)

type AuthHandler struct {
	Auth  *service.AuthService
	Users *service.UserService
}

func createCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.Register(ctx, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Auth.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(createCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(createCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))
	l.Info("login_successful")

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token := req.RefreshToken
	if token == "" {
		if ck, err := c.Cookie("refreshToken"); err == nil {
			token = ck.Value
		}
	}
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Auth.Refresh(ctx, token)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(createCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(createCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	ck, err := c.Cookie("refreshToken")
	if err != nil || ck.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	if err := h.Auth.Logout(ctx, ck.Value); err != nil {
		return httpError(err)
	}

	c.SetCookie(createCookie("accessToken", "", "/", time.Unix(0, 0)))
	c.SetCookie(createCookie("refreshToken", "", "/", time.Unix(0, 0)))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
