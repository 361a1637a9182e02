package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mvoronov/storefront/internal/models"
	"github.com/mvoronov/storefront/internal/password"
	"github.com/mvoronov/storefront/internal/repo"
	"github.com/mvoronov/storefront/internal/tokens"
)

type testEnv struct {
	Repo  *repo.GormRepo
	Auth  *AuthService
	Users *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Role{}, &models.RefreshToken{},
		&models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	))

	r := repo.New(db)
	require.NoError(t, r.SeedRoles(context.Background()))

	issuer := tokens.NewIssuer([]byte("test-jwt-secret"), "storefront", "storefront-clients", 30*time.Minute)

	return &testEnv{
		Repo:  r,
		Auth:  NewAuthService(r, issuer, nil, 48*time.Hour),
		Users: NewUserService(r, nil),
	}
}

func registerUser(t *testing.T, env *testEnv) *models.User {
	t.Helper()

	user, err := env.Users.Register(context.Background(), RegisterInput{
		Username: "test_user",
		Email:    "e@x.com",
		Password: "Aa1!aaaa",
		FullName: "Test User",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Login_ByUsernameAndEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerUser(t, env)
	ctx := context.Background()

	for _, identifier := range []string{"e@x.com", "test_user"} {
		res, err := env.Auth.Login(ctx, identifier, "Aa1!aaaa")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)
	}
}

func TestAuthService_Login_BadCredentialsAreIndistinguishable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerUser(t, env)
	ctx := context.Background()

	_, errUnknown := env.Auth.Login(ctx, "nobody@x.com", "Aa1!aaaa")
	_, errWrongPass := env.Auth.Login(ctx, "e@x.com", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_Login_TokenCarriesCurrentRoles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := registerUser(t, env)
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "e@x.com", "Aa1!aaaa")
	require.NoError(t, err)

	claims, err := tokens.Parse(res.AccessToken, []byte("test-jwt-secret"), "storefront", "storefront-clients")
	require.NoError(t, err)
	assert.Equal(t, []string{repo.RoleUser}, claims.Roles)
	assert.Equal(t, "e@x.com", claims.Email)

	// Promote the user; the next refresh must reflect the new role set.
	admin, err := env.Repo.FindRoleByName(ctx, repo.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, env.Repo.AttachRole(ctx, user, admin))

	res2, err := env.Auth.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	claims2, err := tokens.Parse(res2.AccessToken, []byte("test-jwt-secret"), "storefront", "storefront-clients")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{repo.RoleUser, repo.RoleAdmin}, claims2.Roles)
}

func TestAuthService_Refresh_ConsumeOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerUser(t, env)
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "e@x.com", "Aa1!aaaa")
	require.NoError(t, err)

	first, err := env.Auth.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEqual(t, res.RefreshToken, first.RefreshToken)

	// Replaying the consumed token always fails.
	_, err = env.Auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The rotated replacement still works.
	_, err = env.Auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.Auth.Refresh(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerUser(t, env)
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "e@x.com", "Aa1!aaaa")
	require.NoError(t, err)

	// Move the service clock past the refresh expiry.
	env.Auth.Now = func() time.Time { return time.Now().Add(49 * time.Hour) }

	_, err = env.Auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerUser(t, env)
	ctx := context.Background()

	res, err := env.Auth.Login(ctx, "e@x.com", "Aa1!aaaa")
	require.NoError(t, err)

	require.NoError(t, env.Auth.Logout(ctx, res.RefreshToken))

	_, err = env.Auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Login_CorruptStoredSaltIsServerFault(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := registerUser(t, env)
	ctx := context.Background()

	require.NoError(t, env.Repo.DB.Model(user).Update("password_salt", "%%%broken%%%").Error)

	_, err := env.Auth.Login(ctx, "e@x.com", "Aa1!aaaa")
	require.Error(t, err)
	assert.ErrorIs(t, err, password.ErrCredentialFormat)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
