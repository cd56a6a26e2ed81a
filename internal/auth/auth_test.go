package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/database/inmemory"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

func newService(t *testing.T) (*auth.Service, *auth.TokenIssuer, *inmemory.Store) {
	t.Helper()
	store := inmemory.NewStore()
	tokens := auth.NewTokenIssuer("test-secret", 5*time.Hour)
	return auth.NewService(store, tokens, zerolog.Nop()), tokens, store
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, auth.CheckPassword(hash, "secret1"))
	assert.False(t, auth.CheckPassword(hash, "secret2"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	claims, id, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	other := auth.NewTokenIssuer("other-secret", time.Hour)
	_, _, err = other.Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", -time.Minute)
	token, err := tokens.Issue(&models.User{ID: uuid.New(), Role: models.RoleRegular})
	require.NoError(t, err)

	_, _, err = tokens.Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	user, err := svc.Register(ctx, auth.RegisterInput{Name: "Anna", Email: " Anna@Example.com ", Password: "secret1"}, models.RoleRegular)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Equal(t, models.RoleRegular, user.Role)

	_, err = svc.Register(ctx, auth.RegisterInput{Name: "Anna", Email: "anna@example.com", Password: "secret1"}, models.RoleRegular)
	assert.ErrorIs(t, err, auth.ErrUserExists)

	token, logged, err := svc.Login(ctx, "ANNA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, _, err = svc.Login(ctx, "anna@example.com", "wrong-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	cases := []auth.RegisterInput{
		{Name: "A", Email: "not-an-email", Password: "secret1"},
		{Name: "A", Email: "a@example.com", Password: "123"},
		{Name: " ", Email: "a@example.com", Password: "secret1"},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in, models.RoleRegular)
		assert.ErrorIs(t, err, auth.ErrInvalidInput, "вход %+v", in)
	}
}

func newRouter(svc *auth.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", auth.Protect(svc), func(c *gin.Context) {
		p, _ := auth.PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID.String(), "role": p.Role})
	})
	r.GET("/admin", auth.Protect(svc), auth.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectMiddleware(t *testing.T) {
	ctx := context.Background()
	svc, tokens, store := newService(t)
	r := newRouter(svc)

	regular, err := svc.Register(ctx, auth.RegisterInput{Name: "R", Email: "r@example.com", Password: "secret1"}, models.RoleRegular)
	require.NoError(t, err)
	admin, err := svc.Register(ctx, auth.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"}, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", "garbage").Code)

	regularToken, err := tokens.Issue(regular)
	require.NoError(t, err)
	w := doRequest(r, "/me", regularToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), regular.ID.String())
	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", regularToken).Code)

	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/admin", adminToken).Code)

	// Пользователь удалён после выдачи токена.
	require.NoError(t, store.DeleteUser(ctx, regular.ID))
	w = doRequest(r, "/me", regularToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}
