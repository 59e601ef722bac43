package repo

import (
	"context"

	"github.com/painelquick/backend/internal/models"
	"gorm.io/gorm/clause"
)

// InsertHistory writes a history snapshot once per (order, stage). It
// reports whether a new row was written.
func (r *GormRepo) InsertHistory(ctx context.Context, h *models.DeliveryHistory) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "stage"}},
			DoNothing: true,
		}).
		Create(h)
	if res.Error != nil {
		return false, wrap(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ListHistory(ctx context.Context, establishmentID uint, offset, limit int) (int64, []models.DeliveryHistory, error) {
	q := r.DB.WithContext(ctx).Model(&models.DeliveryHistory{}).Where("establishment_id = ?", establishmentID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, wrap(err)
	}

	var out []models.DeliveryHistory
	err := r.DB.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("finished_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return 0, nil, wrap(err)
	}
	return total, out, nil
}

// OrdersMissingHistory returns ids of orders that should have a snapshot for
// stage but do not.
func (r *GormRepo) OrdersMissingHistory(ctx context.Context, stage models.HistoryStage) ([]uint, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("NOT EXISTS (SELECT 1 FROM delivery_history h WHERE h.order_id = orders.id AND h.stage = ?)", string(stage))
	if stage == models.StageDelivered {
		q = q.Where("status = ?", models.StatusDelivered)
	}
	var ids []uint
	err := q.Order("id ASC").Pluck("id", &ids).Error
	return ids, wrap(err)
}
