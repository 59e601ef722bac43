package service

import (
	"context"

	"github.com/painelquick/backend/internal/models"
)

// Notifier receives order events after they are committed.
type Notifier interface {
	NewOrder(ctx context.Context, order models.OrderView)
	OrderUpdated(ctx context.Context, order models.OrderView)
}

type NopNotifier struct{}

func (NopNotifier) NewOrder(context.Context, models.OrderView)     {}
func (NopNotifier) OrderUpdated(context.Context, models.OrderView) {}
