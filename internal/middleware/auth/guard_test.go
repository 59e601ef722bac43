package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var secret = []byte("test-secret")

type fakeStore struct {
	users   map[uint]*models.User
	revoked map[string]bool
	err     error
}

func (f *fakeStore) FindUserByID(_ context.Context, id uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)
	}
	return u, nil
}

func (f *fakeStore) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func newStore() *fakeStore {
	return &fakeStore{
		users: map[uint]*models.User{
			1: {ID: 1, Name: "Loja", Role: models.RoleEstablishment},
			2: {ID: 2, Name: "Cliente", Role: models.RoleCustomer},
		},
		revoked: map[string]bool{},
	}
}

func issue(t *testing.T, id uint, role models.Role, ttl time.Duration) (string, *tokens.AccessClaims) {
	t.Helper()
	tok, claims, err := tokens.IssueAccessToken(secret, id, "x@example.com", string(role), ttl)
	require.NoError(t, err)
	return tok, claims
}

func serve(g *Guard, mws []echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *models.User, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.User
	h := func(c echo.Context) error {
		seen, _ = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	err := g.RequireAuth(h)(c)
	return rec, seen, err
}

func httpErr(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	return he
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	valid, _ := issue(t, 1, models.RoleEstablishment, time.Hour)
	expired, _ := issue(t, 1, models.RoleEstablishment, -time.Minute)
	ghost, _ := issue(t, 42, models.RoleCustomer, time.Hour)

	cases := []struct {
		name   string
		header string
		code   int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, "access token missing"},
		{"malformed", "Bearer not-a-jwt", http.StatusUnauthorized, "invalid token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"unknown user", "Bearer " + ghost, http.StatusUnauthorized, "user not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := serve(NewGuard(newStore(), secret), nil, tc.header)
			he := httpErr(t, err)
			assert.Equal(t, tc.code, he.Code)
			assert.Equal(t, tc.msg, he.Message)
		})
	}

	t.Run("valid loads fresh user", func(t *testing.T) {
		t.Parallel()
		store := newStore()
		store.users[1].Name = "Renamed"
		rec, seen, err := serve(NewGuard(store, secret), nil, "Bearer "+valid)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "Renamed", seen.Name)
	})
}

func TestRequireAuthRejectsRevokedToken(t *testing.T) {
	t.Parallel()

	tok, claims := issue(t, 2, models.RoleCustomer, time.Hour)
	store := newStore()
	store.revoked[claims.ID] = true

	_, _, err := serve(NewGuard(store, secret), nil, "Bearer "+tok)
	he := httpErr(t, err)
	assert.Equal(t, "invalid token", he.Message)
}

func TestRequireAuthStoreFailure(t *testing.T) {
	t.Parallel()

	tok, _ := issue(t, 2, models.RoleCustomer, time.Hour)
	store := newStore()
	store.err = errors.New("db down")

	_, _, err := serve(NewGuard(store, secret), nil, "Bearer "+tok)
	assert.Equal(t, http.StatusInternalServerError, httpErr(t, err).Code)
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	customer, _ := issue(t, 2, models.RoleCustomer, time.Hour)
	est, _ := issue(t, 1, models.RoleEstablishment, time.Hour)
	gate := []echo.MiddlewareFunc{RequireRoles(models.RoleEstablishment, models.RoleDelivery)}

	_, _, err := serve(NewGuard(newStore(), secret), gate, "Bearer "+customer)
	he := httpErr(t, err)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "insufficient permissions", he.Message)

	rec, _, err := serve(NewGuard(newStore(), secret), gate, "Bearer "+est)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalNeverRejects(t *testing.T) {
	t.Parallel()

	g := NewGuard(newStore(), secret)
	e := echo.New()

	for _, header := range []string{"", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		var attached bool
		err := g.Optional(func(c echo.Context) error {
			_, attached = CurrentUser(c)
			return nil
		})(c)
		require.NoError(t, err)
		assert.False(t, attached)
	}

	tok, _ := issue(t, 2, models.RoleCustomer, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: tok})
	c := e.NewContext(req, httptest.NewRecorder())
	var u *models.User
	require.NoError(t, g.Optional(func(c echo.Context) error {
		u, _ = CurrentUser(c)
		return nil
	})(c))
	require.NotNil(t, u)
	assert.Equal(t, uint(2), u.ID)
}
