package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/painelquick/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func mustUser(t *testing.T, r *GormRepo, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "x",
		Role:     role,
		Phone:    "11999990000",
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func mustOrder(t *testing.T, r *GormRepo, customer, establishment uint, status models.OrderStatus, delivery *uint) *models.Order {
	t.Helper()
	o := &models.Order{
		CustomerID:      customer,
		EstablishmentID: establishment,
		DeliveryID:      delivery,
		TotalAmount:     10,
		Status:          status,
		PaymentMethod:   "CASH",
		OrderType:       models.OrderTypeDelivery,
	}
	require.NoError(t, r.CreateOrderTree(context.Background(), o, nil))
	return o
}
