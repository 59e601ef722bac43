package aggregate

import (
	"testing"

	"github.com/painelquick/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func row(order uint, item, add *uint) models.OrderRow {
	r := models.OrderRow{
		ID:           order,
		Status:       models.StatusPending,
		CustomerName: ptr("ana"),
	}
	if item != nil {
		r.ItemID = item
		r.ProductID = ptr(uint(100) + *item)
		r.ProductName = ptr("produto")
		r.ItemQuantity = ptr(2)
		r.ItemPrice = ptr(10.0)
	}
	if add != nil {
		r.AdditionID = add
		r.OptionID = ptr(uint(200) + *add)
		r.OptionName = ptr("extra")
		r.AdditionQty = ptr(1)
		r.AdditionPrice = ptr(1.5)
	}
	return r
}

func TestOrdersFoldsJoinRows(t *testing.T) {
	t.Parallel()

	rows := []models.OrderRow{
		row(2, ptr(uint(20)), ptr(uint(201))),
		row(1, ptr(uint(10)), ptr(uint(101))),
		row(2, ptr(uint(20)), ptr(uint(202))),
		row(1, ptr(uint(10)), ptr(uint(102))),
		row(1, ptr(uint(11)), nil),
		row(2, ptr(uint(20)), ptr(uint(201))),
		row(3, nil, nil),
	}

	got := Orders(rows)
	require.Len(t, got, 3)
	assert.Equal(t, []uint{2, 1, 3}, []uint{got[0].ID, got[1].ID, got[2].ID})

	require.Len(t, got[0].Items, 1)
	adds := got[0].Items[0].Additions
	require.Len(t, adds, 2)
	assert.Equal(t, uint(201), adds[0].ID)
	assert.Equal(t, uint(202), adds[1].ID)

	require.Len(t, got[1].Items, 2)
	assert.Equal(t, uint(10), got[1].Items[0].ID)
	assert.Equal(t, uint(11), got[1].Items[1].ID)
	assert.Empty(t, got[1].Items[1].Additions)
	assert.NotNil(t, got[1].Items[1].Additions)

	assert.Empty(t, got[2].Items)
	assert.NotNil(t, got[2].Items)
	assert.Equal(t, "ana", got[2].CustomerName)
}

func TestOrdersIsIdempotent(t *testing.T) {
	t.Parallel()

	rows := []models.OrderRow{
		row(5, ptr(uint(50)), ptr(uint(500))),
		row(5, ptr(uint(51)), ptr(uint(510))),
		row(5, ptr(uint(50)), ptr(uint(501))),
	}
	first := Orders(rows)
	doubled := append(append([]models.OrderRow{}, rows...), rows...)
	assert.Equal(t, first, Orders(rows))
	assert.Equal(t, first, Orders(doubled))
}

func TestOrdersItemWithoutAdditionThenWithAddition(t *testing.T) {
	t.Parallel()

	got := Orders([]models.OrderRow{
		row(9, ptr(uint(90)), nil),
		row(9, ptr(uint(90)), ptr(uint(900))),
	})
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 1)
	assert.Len(t, got[0].Items[0].Additions, 1)
}

func TestOne(t *testing.T) {
	t.Parallel()

	_, ok := One(nil)
	assert.False(t, ok)

	o, ok := One([]models.OrderRow{row(4, nil, nil)})
	require.True(t, ok)
	assert.Equal(t, uint(4), o.ID)
	assert.Empty(t, Orders(nil))
}
