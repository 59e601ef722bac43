package service

import (
	"context"
	"testing"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDefaultsOnFirstRead(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()
	svc := &EstablishmentService{Repo: r}
	est := mustUser(t, r, "Cantina", models.RoleEstablishment)

	p, err := svc.Profile(ctx, est)
	require.NoError(t, err)
	assert.Equal(t, "Cantina", p.RestaurantName)
	assert.InDelta(t, 5.0, p.DeliveryFee, 0.001)
	assert.InDelta(t, 20.0, p.MinimumOrder, 0.001)
	assert.Equal(t, models.DefaultPaymentMethods, p.AcceptedPaymentMethods)

	again, err := svc.Profile(ctx, est)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestUpdateProfileReplacesBusinessHours(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()
	svc := &EstablishmentService{Repo: r}
	est := mustUser(t, r, "Cantina", models.RoleEstablishment)

	fee, cuisine := 0.0, " Italiana "
	p, err := svc.UpdateProfile(ctx, est, transport.EstablishmentProfileRequest{
		DeliveryFee: &fee,
		CuisineType: &cuisine,
		BusinessHours: []transport.BusinessHourRequest{
			{DayOfWeek: 1, OpenTime: "18:00", CloseTime: "23:00"},
			{DayOfWeek: 0, IsClosed: true},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, p.DeliveryFee)
	assert.Equal(t, "Italiana", p.CuisineType)
	require.Len(t, p.BusinessHours, 2)
	assert.Equal(t, 0, p.BusinessHours[0].DayOfWeek)
	assert.True(t, p.BusinessHours[0].IsClosed)

	p, err = svc.UpdateProfile(ctx, est, transport.EstablishmentProfileRequest{
		BusinessHours: []transport.BusinessHourRequest{{DayOfWeek: 5, OpenTime: "11:00", CloseTime: "15:00"}},
	})
	require.NoError(t, err)
	require.Len(t, p.BusinessHours, 1)
	assert.Equal(t, 5, p.BusinessHours[0].DayOfWeek)
	assert.Equal(t, "Italiana", p.CuisineType, "fields not sent are kept")

	_, err = svc.UpdateProfile(ctx, est, transport.EstablishmentProfileRequest{
		BusinessHours: []transport.BusinessHourRequest{{DayOfWeek: 2}, {DayOfWeek: 2}},
	})
	require.ErrorIs(t, err, ErrValidation)

	types, err := svc.CuisineTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Italiana"}, types)
}

func TestPublicEstablishments(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()
	svc := &EstablishmentService{Repo: r}

	est := mustUser(t, r, "Cantina", models.RoleEstablishment)
	bare := mustUser(t, r, "Boteco", models.RoleEstablishment)
	customer := mustUser(t, r, "ana", models.RoleCustomer)
	_, err := svc.SetLogo(ctx, est, "/uploads/logo.png")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	byID := map[uint]Establishment{}
	for _, e := range list {
		byID[e.ID] = e
	}
	assert.Equal(t, "/uploads/logo.png", byID[est.ID].LogoURL)
	assert.Equal(t, "Boteco", byID[bare.ID].RestaurantName)

	_, err = svc.Get(ctx, customer.ID)
	require.ErrorIs(t, err, ErrNotFound)
	got, err := svc.Get(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cantina", got.RestaurantName)
}

func TestHistoryPaging(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t, HistoryMode{AtPlacement: true})
	ctx := context.Background()
	svc := &EstablishmentService{Repo: f.repo}

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, f.customer, f.deliveryRequest())
		require.NoError(t, err)
	}
	rows, meta, err := svc.History(ctx, f.est, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.EqualValues(t, 3, meta.Total)
	assert.True(t, meta.HasPrev)
	assert.False(t, meta.HasNext)
}
