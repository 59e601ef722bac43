package repo

import (
	"context"

	"github.com/painelquick/backend/internal/models"
)

func (r *GormRepo) ListAddresses(ctx context.Context, userID uint) ([]models.UserAddress, error) {
	var out []models.UserAddress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC, id ASC").
		Find(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) FindAddress(ctx context.Context, id uint) (*models.UserAddress, error) {
	var a models.UserAddress
	if err := r.first(ctx, &a, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) CountAddresses(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, &models.UserAddress{}, "user_id = ?", userID)
}

func (r *GormRepo) ClearDefaultAddresses(ctx context.Context, userID uint) error {
	err := r.DB.WithContext(ctx).
		Model(&models.UserAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	return wrap(err)
}

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.UserAddress) error {
	return r.create(ctx, a)
}

func (r *GormRepo) SaveAddress(ctx context.Context, a *models.UserAddress) error {
	return r.save(ctx, a)
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.UserAddress{}, id)
}

// OldestAddress returns the user's earliest remaining address.
func (r *GormRepo) OldestAddress(ctx context.Context, userID uint) (*models.UserAddress, error) {
	var a models.UserAddress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&a).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &a, nil
}
