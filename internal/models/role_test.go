package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrderScope(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role   Role
		column string
	}{
		{RoleCustomer, "customer_id"},
		{RoleEstablishment, "establishment_id"},
		{RoleDelivery, "delivery_id"},
		{RoleAdmin, ""},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			t.Parallel()
			col, err := tc.role.OrderScope()
			require.NoError(t, err)
			assert.Equal(t, tc.column, col)
		})
	}

	_, err := Role("WAITER").OrderScope()
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole(" delivery ")
	require.NoError(t, err)
	assert.Equal(t, RoleDelivery, r)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	_, ok := ParseOrderStatus("SHIPPED")
	assert.False(t, ok)

	s, ok := ParseOrderStatus("READY")
	require.True(t, ok)
	assert.True(t, s.In(ActiveStatuses))
	assert.False(t, s.In(CancellableStatuses))
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())

	assert.Equal(t, OrderTypeDelivery, OrderTypeFromRequest("delivery"))
	assert.Equal(t, OrderTypePickup, OrderTypeFromRequest("PICKUP"))
	assert.Equal(t, OrderTypeDineIn, OrderTypeFromRequest("local"))
	assert.Equal(t, OrderTypeDineIn, OrderTypeFromRequest(""))
}
