package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvoronov/storefront/internal/models"
)

const (
	testIssuer   = "storefront"
	testAudience = "storefront-clients"
)

func newTestIssuer() *Issuer {
	return NewIssuer([]byte("test-jwt-secret"), testIssuer, testAudience, 30*time.Minute)
}

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Email:    "e@x.com",
		FullName: "Test User",
	}
}

func TestIssuer_ClaimsRoundTrip(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	token, err := iss.Issue(testUser(), []string{"Admin"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Parse(token, iss.Secret, testIssuer, testAudience)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "e@x.com", claims.Email)
	assert.Equal(t, []string{"Admin"}, claims.Roles)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssuer_MultipleRolesStayStructured(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	token, err := iss.Issue(testUser(), []string{"Admin", "User"})
	require.NoError(t, err)

	claims, err := Parse(token, iss.Secret, testIssuer, testAudience)
	require.NoError(t, err)

	assert.Equal(t, []string{"Admin", "User"}, claims.Roles)
	assert.True(t, claims.HasRole("Admin"))
	assert.True(t, claims.HasRole("User"))
	assert.False(t, claims.HasRole("Admin,User"))
}

func TestIssuer_DifferentInstantsProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	base := time.Now().UTC().Truncate(time.Second)

	iss.Now = func() time.Time { return base }
	first, err := iss.Issue(testUser(), []string{"User"})
	require.NoError(t, err)

	iss.Now = func() time.Time { return base.Add(time.Second) }
	second, err := iss.Issue(testUser(), []string{"User"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestParse_RejectsWrongSecretIssuerAudience(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	token, err := iss.Issue(testUser(), []string{"User"})
	require.NoError(t, err)

	_, err = Parse(token, []byte("other-secret"), testIssuer, testAudience)
	require.Error(t, err)

	_, err = Parse(token, iss.Secret, "other-issuer", testAudience)
	require.Error(t, err)

	_, err = Parse(token, iss.Secret, testIssuer, "other-audience")
	require.Error(t, err)
}

func TestParse_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	iss.Now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := iss.Issue(testUser(), []string{"User"})
	require.NoError(t, err)

	_, err = Parse(token, iss.Secret, testIssuer, testAudience)
	require.Error(t, err)
}
