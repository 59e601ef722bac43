package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/pkg/logging"
	"github.com/painelquick/backend/pkg/metrics"
)

type DeliveryService struct {
	Repo     *repo.GormRepo
	Notifier Notifier
}

// PickCourier returns the eligible courier with the fewest active orders.
// Ties go to the name, then the id. Couriers at MaxActiveOrders are skipped.
func PickCourier(candidates []models.Courier) (models.Courier, bool) {
	var best models.Courier
	found := false
	for _, c := range candidates {
		if c.ActiveOrders >= models.MaxActiveOrders {
			continue
		}
		if !found || less(c, best) {
			best, found = c, true
		}
	}
	return best, found
}

func less(a, b models.Courier) bool {
	if a.ActiveOrders != b.ActiveOrders {
		return a.ActiveOrders < b.ActiveOrders
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

// AssignAuto binds the least loaded eligible courier to a delivery order of
// the establishment. Unless the establishment only works with linked
// couriers, the chosen courier becomes linked as a side effect.
func (s *DeliveryService) AssignAuto(ctx context.Context, actor *models.User, orderID uint) (*transport.AssignResponse, error) {
	l := logging.FromContext(ctx).With("svc", "delivery.assign_auto")

	var chosen models.Courier
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.FindOrderScoped(ctx, orderID, "establishment_id", actor.ID)
		if err != nil {
			return notFound(err, "order")
		}
		if o.OrderType != models.OrderTypeDelivery {
			return fmt.Errorf("%w: order not found", ErrNotFound)
		}
		if !o.Status.In(models.AssignableStatuses) {
			return fmt.Errorf("%w: order cannot receive a courier in status %s", ErrValidation, o.Status)
		}

		onlyLinked := false
		p, err := tx.FindProfile(ctx, actor.ID)
		if err != nil && !repo.IsNotFound(err) {
			return err
		}
		if p != nil {
			onlyLinked = p.OnlyLinkedDelivery
		}

		var candidates []models.Courier
		if onlyLinked {
			candidates, err = tx.LinkedCouriers(ctx, actor.ID)
		} else {
			candidates, err = tx.AllCouriers(ctx)
		}
		if err != nil {
			return err
		}
		c, ok := PickCourier(candidates)
		if !ok {
			return ErrNoCourier
		}
		if !onlyLinked {
			if err := tx.LinkCourier(ctx, actor.ID, c.ID); err != nil {
				return err
			}
		}

		if _, err := tx.UpdateOrder(ctx, o.ID, map[string]any{"delivery_id": c.ID, "status": models.StatusReady}); err != nil {
			return err
		}
		if err := tx.CloseOffers(ctx, o.ID, 0); err != nil {
			return err
		}
		if err := tx.CreateOffer(ctx, &models.OrderOffer{OrderID: o.ID, DeliveryID: &c.ID, Status: models.OfferOffered}); err != nil {
			return err
		}
		chosen = c
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoCourier) {
			metrics.CourierAssignment("none")
		}
		return nil, err
	}

	metrics.CourierAssignment("assigned")
	l.Info("courier_assigned", "order_id", orderID, "delivery_id", chosen.ID, "active_orders", chosen.ActiveOrders)

	if s.Notifier != nil {
		if v, err := load(ctx, s.Repo, orderID); err == nil {
			s.Notifier.OrderUpdated(ctx, *v)
		} else {
			l.Warn("notify_error", "order_id", orderID, "error", err)
		}
	}
	return &transport.AssignResponse{
		Message:      "courier assigned",
		DeliveryID:   chosen.ID,
		DeliveryName: chosen.Name,
		ActiveOrders: chosen.ActiveOrders,
	}, nil
}

func (s *DeliveryService) ListLinked(ctx context.Context, actor *models.User) ([]models.Courier, error) {
	return s.Repo.LinkedCouriers(ctx, actor.ID)
}

// Link links a DELIVERY user to the establishment. Linking twice is a no-op.
func (s *DeliveryService) Link(ctx context.Context, actor *models.User, deliveryID uint) error {
	u, err := s.Repo.FindUserByID(ctx, deliveryID)
	if err != nil {
		return notFound(err, "courier")
	}
	if u.Role != models.RoleDelivery {
		return fmt.Errorf("%w: user %d is not a courier", ErrValidation, deliveryID)
	}
	return s.Repo.LinkCourier(ctx, actor.ID, deliveryID)
}

func (s *DeliveryService) Unlink(ctx context.Context, actor *models.User, deliveryID uint) error {
	return notFound(s.Repo.UnlinkCourier(ctx, actor.ID, deliveryID), "courier link")
}
