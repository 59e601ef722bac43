package service

import (
	"context"
	"testing"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults(t *testing.T, svc *AddressService, u *models.User) map[string]bool {
	t.Helper()
	list, err := svc.List(context.Background(), u, u.ID)
	require.NoError(t, err)
	out := make(map[string]bool, len(list))
	for _, a := range list {
		out[a.Label] = a.IsDefault
	}
	return out
}

func TestCreateAddressDefaults(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &AddressService{Repo: r}
	ctx := context.Background()
	ana := mustUser(t, r, "ana", models.RoleCustomer)

	first, err := svc.Create(ctx, ana, transport.AddressRequest{Label: "casa", Address: "Rua A, 10"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "first address becomes the default")

	_, err = svc.Create(ctx, ana, transport.AddressRequest{Label: "trabalho", Address: "Av. B, 200"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"casa": true, "trabalho": false}, defaults(t, svc, ana))

	_, err = svc.Create(ctx, ana, transport.AddressRequest{Label: "mae", Address: "Rua C, 3", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"casa": false, "trabalho": false, "mae": true}, defaults(t, svc, ana))
}

func TestDeleteDefaultAddressPromotesOldest(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &AddressService{Repo: r}
	ctx := context.Background()
	ana := mustUser(t, r, "ana", models.RoleCustomer)

	home, err := svc.Create(ctx, ana, transport.AddressRequest{Label: "casa", Address: "Rua A, 10"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ana, transport.AddressRequest{Label: "trabalho", Address: "Av. B, 200"})
	require.NoError(t, err)
	gym, err := svc.Create(ctx, ana, transport.AddressRequest{Label: "academia", Address: "Rua D, 4", IsDefault: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ana, home.ID))
	assert.Equal(t, map[string]bool{"trabalho": false, "academia": true}, defaults(t, svc, ana),
		"deleting a non-default address leaves the default alone")

	require.NoError(t, svc.Delete(ctx, ana, gym.ID))
	assert.Equal(t, map[string]bool{"trabalho": true}, defaults(t, svc, ana))

	assert.ErrorIs(t, svc.Delete(ctx, ana, gym.ID), ErrNotFound)
}

func TestAddressOwnership(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &AddressService{Repo: r}
	ctx := context.Background()
	ana := mustUser(t, r, "ana", models.RoleCustomer)
	bia := mustUser(t, r, "bia", models.RoleCustomer)
	admin := mustUser(t, r, "root", models.RoleAdmin)

	a, err := svc.Create(ctx, ana, transport.AddressRequest{Label: "casa", Address: "Rua A, 10"})
	require.NoError(t, err)

	_, err = svc.List(ctx, bia, ana.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bia, a.ID), ErrNotFound)
	_, err = svc.SetDefault(ctx, bia, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, admin, ana.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSetDefaultAddress(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &AddressService{Repo: r}
	ctx := context.Background()
	ana := mustUser(t, r, "ana", models.RoleCustomer)

	_, err := svc.Create(ctx, ana, transport.AddressRequest{Label: "casa", Address: "Rua A, 10"})
	require.NoError(t, err)
	work, err := svc.Create(ctx, ana, transport.AddressRequest{Label: "trabalho", Address: "Av. B, 200"})
	require.NoError(t, err)

	got, err := svc.SetDefault(ctx, ana, work.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	assert.Equal(t, map[string]bool{"casa": false, "trabalho": true}, defaults(t, svc, ana))
}

func TestAddressesByPhoneMatchesCustomersOnly(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &AddressService{Repo: r}
	ctx := context.Background()
	ana := mustUser(t, r, "ana", models.RoleCustomer)
	courier := mustUser(t, r, "joao", models.RoleDelivery)

	_, err := svc.Create(ctx, ana, transport.AddressRequest{Label: "casa", Address: "Rua A, 10"})
	require.NoError(t, err)

	got, err := svc.ByPhone(ctx, ana.Phone)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.User.ID)
	require.Len(t, got.Addresses, 1)

	_, err = svc.ByPhone(ctx, courier.Phone)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ByPhone(ctx, " ")
	assert.ErrorIs(t, err, ErrValidation)
}
