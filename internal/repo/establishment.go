package repo

import (
	"context"

	"github.com/painelquick/backend/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) FindProfile(ctx context.Context, userID uint) (*models.EstablishmentProfile, error) {
	var p models.EstablishmentProfile
	err := r.DB.WithContext(ctx).
		Preload("BusinessHours", func(db *gorm.DB) *gorm.DB { return db.Order("day_of_week ASC, id ASC") }).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &p, nil
}

func (r *GormRepo) CreateProfile(ctx context.Context, p *models.EstablishmentProfile) error {
	return wrap(r.DB.WithContext(ctx).Omit("BusinessHours").Create(p).Error)
}

func (r *GormRepo) SaveProfile(ctx context.Context, p *models.EstablishmentProfile) error {
	return wrap(r.DB.WithContext(ctx).Omit("BusinessHours").Save(p).Error)
}

func (r *GormRepo) ReplaceBusinessHours(ctx context.Context, establishmentID uint, hours []models.BusinessHour) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("establishment_id = ?", establishmentID).Delete(&models.BusinessHour{}).Error; err != nil {
		return wrap(err)
	}
	if len(hours) == 0 {
		return nil
	}
	for i := range hours {
		hours[i].ID = 0
		hours[i].EstablishmentID = establishmentID
	}
	return wrap(db.Create(&hours).Error)
}

// ProfilesFor returns the profiles of the given establishments keyed by user id.
func (r *GormRepo) ProfilesFor(ctx context.Context, userIDs []uint) (map[uint]models.EstablishmentProfile, error) {
	out := make(map[uint]models.EstablishmentProfile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var profiles []models.EstablishmentProfile
	err := r.DB.WithContext(ctx).
		Preload("BusinessHours", func(db *gorm.DB) *gorm.DB { return db.Order("day_of_week ASC, id ASC") }).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error
	if err != nil {
		return nil, wrap(err)
	}
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *GormRepo) CuisineTypes(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).
		Model(&models.EstablishmentProfile{}).
		Distinct("cuisine_type").
		Where("cuisine_type IS NOT NULL AND cuisine_type <> ''").
		Order("cuisine_type ASC").
		Pluck("cuisine_type", &out).Error
	return out, wrap(err)
}
