package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/mvoronov/storefront/internal/repo"
	"github.com/mvoronov/storefront/internal/service"
	"github.com/mvoronov/storefront/internal/tokens"
)

func newRouterEnv(t *testing.T) (*handlerEnv, *tokens.Issuer) {
	t.Helper()

	env := newHandlerEnv(t)
	deps := Deps{
		AuthHandler:     env.Auth,
		CategoryHandler: env.Category,
		ProductHandler:  env.Product,
		OrderHandler:    env.Order,
		PaymentHandler:  &PaymentHandler{Svc: service.NewPaymentService(env.Repo, nil, nil)},
		JWTSecret:       []byte("test-jwt-secret"),
		JWTIssuer:       "storefront",
		JWTAudience:     "storefront-clients",
	}
	Register(env.E, &deps)

	issuer := tokens.NewIssuer([]byte("test-jwt-secret"), "storefront", "storefront-clients", 30*time.Minute)
	return env, issuer
}

// serve drives a request through the full router, middleware included.
func (env *handlerEnv) serve(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	env, issuer := newRouterEnv(t)
	user := env.seedUser(t, "shopper")

	body := map[string]string{"name": "books"}

	// No token at all.
	rec := env.serve(http.MethodPost, "/api/v1/admin/categories", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token, but no Admin role.
	userTok, err := issuer.Issue(user, []string{repo.RoleUser})
	require.NoError(t, err)
	rec = env.serve(http.MethodPost, "/api/v1/admin/categories", userTok, body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Admin role passes.
	adminTok, err := issuer.Issue(user, []string{repo.RoleAdmin})
	require.NoError(t, err)
	rec = env.serve(http.MethodPost, "/api/v1/admin/categories", adminTok, body)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_PrivateRoutesRequireToken(t *testing.T) {
	env, issuer := newRouterEnv(t)
	user := env.seedUser(t, "shopper")

	rec := env.serve(http.MethodGet, "/api/v1/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := issuer.Issue(user, []string{repo.RoleUser})
	require.NoError(t, err)
	rec = env.serve(http.MethodGet, "/api/v1/orders", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_GuardRejectsBadTokens(t *testing.T) {
	env, _ := newRouterEnv(t)
	user := env.seedUser(t, "shopper")

	expired := tokens.NewIssuer([]byte("test-jwt-secret"), "storefront", "storefront-clients", 30*time.Minute)
	expired.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	cases := []struct {
		name   string
		issuer *tokens.Issuer
	}{
		{"wrong secret", tokens.NewIssuer([]byte("other-secret"), "storefront", "storefront-clients", 30*time.Minute)},
		{"wrong issuer", tokens.NewIssuer([]byte("test-jwt-secret"), "someone-else", "storefront-clients", 30*time.Minute)},
		{"wrong audience", tokens.NewIssuer([]byte("test-jwt-secret"), "storefront", "other-clients", 30*time.Minute)},
		{"expired", expired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := tc.issuer.Issue(user, []string{repo.RoleAdmin})
			require.NoError(t, err)

			rec := env.serve(http.MethodPost, "/api/v1/admin/categories", tok, map[string]string{"name": "books"})
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_PublicRoutesNeedNoToken(t *testing.T) {
	env, _ := newRouterEnv(t)

	rec := env.serve(http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.serve(http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
