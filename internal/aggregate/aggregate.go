// Package aggregate folds flat order join rows into nested orders.
package aggregate

import "github.com/painelquick/backend/internal/models"

type orderAcc struct {
	view  *models.OrderView
	items map[uint]int
	adds  map[uint]map[uint]struct{}
}

// Orders groups rows by order id. Orders, items and additions come out in
// the order they first appear in rows, each exactly once, so the result does
// not depend on how the query sorted them beyond that. Rows whose item
// columns are null produce an order with no items.
func Orders(rows []models.OrderRow) []models.OrderView {
	index := make(map[uint]int)
	accs := make([]*orderAcc, 0)

	for i := range rows {
		row := &rows[i]
		pos, ok := index[row.ID]
		if !ok {
			pos = len(accs)
			index[row.ID] = pos
			accs = append(accs, &orderAcc{
				view:  newView(row),
				items: make(map[uint]int),
				adds:  make(map[uint]map[uint]struct{}),
			})
		}
		acc := accs[pos]

		if row.ItemID == nil {
			continue
		}
		itemID := *row.ItemID
		itemPos, ok := acc.items[itemID]
		if !ok {
			itemPos = len(acc.view.Items)
			acc.items[itemID] = itemPos
			acc.adds[itemID] = make(map[uint]struct{})
			acc.view.Items = append(acc.view.Items, newItem(row))
		}

		if row.AdditionID == nil {
			continue
		}
		addID := *row.AdditionID
		if _, dup := acc.adds[itemID][addID]; dup {
			continue
		}
		acc.adds[itemID][addID] = struct{}{}
		item := &acc.view.Items[itemPos]
		item.Additions = append(item.Additions, newAddition(row))
	}

	out := make([]models.OrderView, len(accs))
	for i, acc := range accs {
		out[i] = *acc.view
	}
	return out
}

// One returns the single order in rows, or false when rows is empty.
func One(rows []models.OrderRow) (models.OrderView, bool) {
	orders := Orders(rows)
	if len(orders) == 0 {
		return models.OrderView{}, false
	}
	return orders[0], true
}

func newView(r *models.OrderRow) *models.OrderView {
	return &models.OrderView{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		EstablishmentID:    r.EstablishmentID,
		DeliveryID:         r.DeliveryID,
		TotalAmount:        r.TotalAmount,
		DeliveryFee:        r.DeliveryFee,
		Status:             r.Status,
		PaymentMethod:      r.PaymentMethod,
		OrderType:          r.OrderType,
		AmountPaid:         r.AmountPaid,
		ChangeAmount:       r.ChangeAmount,
		PaymentStatus:      r.PaymentStatus,
		DeliveryAddress:    r.DeliveryAddress,
		Notes:              r.Notes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		CustomerName:       str(r.CustomerName),
		CustomerPhone:      str(r.CustomerPhone),
		CustomerAddress:    str(r.CustomerAddress),
		EstablishmentName:  str(r.EstablishmentName),
		DeliveryPersonName: str(r.DeliveryPersonName),
		PixKey:             str(r.PixKey),
		Items:              []models.OrderItemView{},
	}
}

func newItem(r *models.OrderRow) models.OrderItemView {
	return models.OrderItemView{
		ID:          *r.ItemID,
		ProductID:   val(r.ProductID),
		ProductName: str(r.ProductName),
		Quantity:    val(r.ItemQuantity),
		Price:       val(r.ItemPrice),
		Obs:         str(r.ItemObs),
		Additions:   []models.AdditionView{},
	}
}

func newAddition(r *models.OrderRow) models.AdditionView {
	return models.AdditionView{
		ID:       *r.AdditionID,
		OptionID: val(r.OptionID),
		Name:     str(r.OptionName),
		Quantity: val(r.AdditionQty),
		Price:    val(r.AdditionPrice),
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func val[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
