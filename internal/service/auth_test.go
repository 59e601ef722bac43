package service

import (
	"context"
	"testing"
	"time"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
	pkg_hash "github.com/painelquick/backend/pkg/hash"
	"github.com/painelquick/backend/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authSecret = []byte("auth-test-secret")

func newAuthService(t *testing.T) (*AuthService, *repo.GormRepo) {
	t.Helper()
	r := newTestRepo(t)
	return &AuthService{Repo: r, JWTSecret: authSecret, TokenTTL: time.Hour}, r
}

func storeUser(t *testing.T, r *repo.GormRepo, email, password string) *models.User {
	t.Helper()
	u := &models.User{Name: "user", Email: email, Password: password, Role: models.RoleCustomer}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func TestMigrateLegacyPasswords(t *testing.T) {
	t.Parallel()
	svc, r := newAuthService(t)
	ctx := context.Background()

	hashed, err := pkg_hash.HashPassword("ja-hash")
	require.NoError(t, err)
	legacy := storeUser(t, r, "legado@example.com", "segredo1")
	modern := storeUser(t, r, "novo@example.com", hashed)

	_, err = svc.Login(ctx, "legado@example.com", "segredo1")
	require.ErrorIs(t, err, ErrUnauthorized, "plaintext rows never log in before migration")

	rep, err := svc.MigrateLegacyPasswords(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{Scanned: 2, Migrated: 1}, rep)

	got, err := r.FindUserByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.True(t, pkg_hash.IsHash(got.Password))
	assert.NotEqual(t, "segredo1", got.Password)

	got, err = r.FindUserByID(ctx, modern.ID)
	require.NoError(t, err)
	assert.Equal(t, hashed, got.Password, "hashed rows are left alone")

	res, err := svc.Login(ctx, "LEGADO@example.com ", "segredo1")
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	rep, err = svc.MigrateLegacyPasswords(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{Scanned: 2, Migrated: 0}, rep)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	svc, r := newAuthService(t)
	ctx := context.Background()

	hashed, err := pkg_hash.HashPassword("segredo1")
	require.NoError(t, err)
	storeUser(t, r, "ana@example.com", hashed)

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "ana@example.com", "segredo2"},
		{"unknown email", "bia@example.com", "segredo1"},
		{"hash used as password", "ana@example.com", hashed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestRegisterCreatesEstablishmentWithProfile(t *testing.T) {
	t.Parallel()
	svc, r := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, transport.RegisterRequest{
		Name: "Pizzaria Boa", Email: "Boa@Example.com", Password: "segredo1", SupportPhone: "11999998888",
	})
	require.NoError(t, err)
	assert.Equal(t, "boa@example.com", u.Email)
	assert.Equal(t, models.RoleEstablishment, u.Role)
	assert.True(t, pkg_hash.IsHash(u.Password))

	p, err := r.FindProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pizzaria Boa", p.RestaurantName)
	assert.Equal(t, "11999998888", p.Whatsapp)

	_, err = svc.Register(ctx, transport.RegisterRequest{Name: "Outra", Email: "boa@example.com", Password: "segredo1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogoutAndRefreshRevokeOldToken(t *testing.T) {
	t.Parallel()
	svc, r := newAuthService(t)
	ctx := context.Background()

	hashed, err := pkg_hash.HashPassword("segredo1")
	require.NoError(t, err)
	storeUser(t, r, "ana@example.com", hashed)

	login, err := svc.Login(ctx, "ana@example.com", "segredo1")
	require.NoError(t, err)
	first, err := tokens.AccessClaimsFromToken(login.Token, authSecret)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.User, first)
	require.NoError(t, err)
	second, err := tokens.AccessClaimsFromToken(refreshed.Token, authSecret)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	revoked, err := r.IsTokenRevoked(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, revoked, "refresh revokes the old token")
	revoked, err = r.IsTokenRevoked(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(ctx, second))
	revoked, err = r.IsTokenRevoked(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, svc.Logout(ctx, second), "logging out twice is harmless")
	require.NoError(t, svc.Logout(ctx, nil))
}
