package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opsvault/internal/entity"
	"opsvault/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountSource struct {
	users map[uuid.UUID]*entity.User
}

func (s fakeAccountSource) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func accountSourceWith(users ...*entity.User) fakeAccountSource {
	s := fakeAccountSource{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func callProtected(t *testing.T, m AuthMiddleware, authorization string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	return rec, m.RequireAuth(next)(c)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	manager := utils.JWTManager{Secret: []byte("secret")}
	account := &entity.User{ID: uuid.New(), Role: entity.UserRoleAdmin, IsActive: true}
	token, _, err := manager.IssueSessionToken(account.ID.String(), "admin")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := AuthMiddleware{JWT: &manager, Users: accountSourceWith(account)}
	handlerRan := false
	err = m.RequireAuth(func(c echo.Context) error {
		handlerRan = true
		userID, ok := UserIDFromContext(c)
		assert.True(t, ok)
		assert.Equal(t, account.ID, userID)
		role, ok := RoleFromContext(c)
		assert.True(t, ok)
		assert.Equal(t, "admin", role)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.True(t, handlerRan)
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	manager := utils.JWTManager{Secret: []byte("secret")}
	m := AuthMiddleware{JWT: &manager, Users: accountSourceWith()}

	for _, header := range []string{"", "Bearer", "Token abc", "Bearer not-a-jwt"} {
		_, err := callProtected(t, m, header)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok, "header %q should be rejected", header)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	manager := utils.JWTManager{Secret: []byte("secret"), SessionTokenTTL: -time.Minute}
	account := &entity.User{ID: uuid.New(), Role: entity.UserRoleUser, IsActive: true}
	token, _, err := manager.IssueSessionToken(account.ID.String(), "user")
	require.NoError(t, err)

	m := AuthMiddleware{JWT: &manager, Users: accountSourceWith(account)}
	_, err = callProtected(t, m, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

// A valid token must stop working the moment its account is deactivated,
// not when the token expires.
func TestRequireAuthRejectsDeactivatedAccount(t *testing.T) {
	manager := utils.JWTManager{Secret: []byte("secret")}
	account := &entity.User{ID: uuid.New(), Role: entity.UserRoleAdmin, IsActive: true}
	token, _, err := manager.IssueSessionToken(account.ID.String(), "admin")
	require.NoError(t, err)

	m := AuthMiddleware{JWT: &manager, Users: accountSourceWith(account)}
	_, err = callProtected(t, m, "Bearer "+token)
	require.NoError(t, err)

	account.IsActive = false
	_, err = callProtected(t, m, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuthRejectsUnknownAccount(t *testing.T) {
	manager := utils.JWTManager{Secret: []byte("secret")}
	token, _, err := manager.IssueSessionToken(uuid.NewString(), "user")
	require.NoError(t, err)

	m := AuthMiddleware{JWT: &manager, Users: accountSourceWith()}
	_, err = callProtected(t, m, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

// The role comes from the account row, so a token minted before a demotion
// does not keep its old privileges.
func TestRequireAuthReadsRoleFromAccount(t *testing.T) {
	manager := utils.JWTManager{Secret: []byte("secret")}
	account := &entity.User{ID: uuid.New(), Role: entity.UserRoleUser, IsActive: true}
	token, _, err := manager.IssueSessionToken(account.ID.String(), "admin")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	m := AuthMiddleware{JWT: &manager, Users: accountSourceWith(account)}
	err = m.RequireAuth(func(c echo.Context) error {
		role, ok := RoleFromContext(c)
		assert.True(t, ok)
		assert.Equal(t, "user", role)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	SetAuthContext(c, uuid.Nil, "user")
	err := RequireRole("admin")(next)(c)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	c = e.NewContext(req, httptest.NewRecorder())
	SetAuthContext(c, uuid.Nil, "admin")
	assert.NoError(t, RequireRole("admin")(next)(c))
}
