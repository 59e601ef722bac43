package repo

import (
	"context"
	"time"

	"github.com/painelquick/backend/internal/models"
	"gorm.io/gorm/clause"
)

const courierSQL = `
SELECT u.id, u.name, u.email, u.phone,
       (SELECT COUNT(*) FROM orders o WHERE o.delivery_id = u.id AND o.status IN ?) AS active_orders
FROM users u
WHERE u.role = ?`

const courierOrder = ` ORDER BY active_orders ASC, u.name ASC, u.id ASC`

func (r *GormRepo) couriers(ctx context.Context, extra string, args ...any) ([]models.Courier, error) {
	var out []models.Courier
	all := append([]any{statusStrings(models.ActiveStatuses), string(models.RoleDelivery)}, args...)
	if err := r.Execute(ctx, &out, courierSQL+extra+courierOrder, all...); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].IsAvailable = out[i].ActiveOrders < models.MaxActiveOrders
	}
	return out, nil
}

// LinkedCouriers returns the couriers linked to the establishment, least
// loaded first.
func (r *GormRepo) LinkedCouriers(ctx context.Context, establishmentID uint) ([]models.Courier, error) {
	return r.couriers(ctx,
		" AND u.id IN (SELECT ed.delivery_id FROM establishment_delivery ed WHERE ed.establishment_id = ?)",
		establishmentID)
}

// AllCouriers returns every delivery user, least loaded first.
func (r *GormRepo) AllCouriers(ctx context.Context) ([]models.Courier, error) {
	return r.couriers(ctx, "")
}

func (r *GormRepo) CountActiveOrders(ctx context.Context, deliveryID uint) (int64, error) {
	return r.count(ctx, &models.Order{}, "delivery_id = ? AND status IN ?", deliveryID, statusStrings(models.ActiveStatuses))
}

// LinkCourier records the establishment/courier link; an existing link is kept.
func (r *GormRepo) LinkCourier(ctx context.Context, establishmentID, deliveryID uint) error {
	link := models.EstablishmentDelivery{EstablishmentID: establishmentID, DeliveryID: deliveryID}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "establishment_id"}, {Name: "delivery_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
	return wrap(err)
}

func (r *GormRepo) UnlinkCourier(ctx context.Context, establishmentID, deliveryID uint) error {
	res := r.DB.WithContext(ctx).
		Where("establishment_id = ? AND delivery_id = ?", establishmentID, deliveryID).
		Delete(&models.EstablishmentDelivery{})
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap(errNotFound())
	}
	return nil
}

func (r *GormRepo) CreateOffer(ctx context.Context, o *models.OrderOffer) error {
	return r.create(ctx, o)
}

func (r *GormRepo) FindOffer(ctx context.Context, id uint) (*models.OrderOffer, error) {
	var o models.OrderOffer
	if err := r.first(ctx, &o, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// RespondOffer moves an OFFERED offer to status. It reports false when the
// offer was already answered.
func (r *GormRepo) RespondOffer(ctx context.Context, id uint, status models.OfferStatus, deliveryID uint) (bool, error) {
	now := time.Now().UTC()
	res := r.DB.WithContext(ctx).
		Model(&models.OrderOffer{}).
		Where("id = ? AND status = ?", id, models.OfferOffered).
		Updates(map[string]any{"status": status, "delivery_id": deliveryID, "responded_at": now})
	if res.Error != nil {
		return false, wrap(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CloseOffers declines every still-open offer of the order except keepID.
func (r *GormRepo) CloseOffers(ctx context.Context, orderID, keepID uint) error {
	now := time.Now().UTC()
	err := r.DB.WithContext(ctx).
		Model(&models.OrderOffer{}).
		Where("order_id = ? AND status = ? AND id <> ?", orderID, models.OfferOffered, keepID).
		Updates(map[string]any{"status": models.OfferDeclined, "responded_at": now}).Error
	return wrap(err)
}

// OpenOffersFor lists OFFERED offers addressed to the courier or to nobody,
// skipping orders the courier already declined or that another courier holds.
func (r *GormRepo) OpenOffersFor(ctx context.Context, deliveryID uint) ([]models.OrderOffer, error) {
	var out []models.OrderOffer
	err := r.Execute(ctx, &out, `
		SELECT f.*
		FROM order_offers f
		JOIN orders o ON o.id = f.order_id
		WHERE f.status = ?
		  AND (f.delivery_id = ? OR f.delivery_id IS NULL)
		  AND (o.delivery_id IS NULL OR o.delivery_id = ?)
		  AND o.status IN ?
		  AND NOT EXISTS (
		      SELECT 1 FROM order_offers x
		      WHERE x.order_id = f.order_id AND x.delivery_id = ? AND x.status = ?)
		ORDER BY f.created_at ASC, f.id ASC`,
		string(models.OfferOffered), deliveryID, deliveryID,
		statusStrings(models.AssignableStatuses), deliveryID, string(models.OfferDeclined))
	return out, err
}
