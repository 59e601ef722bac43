package repo

import (
	"context"

	"github.com/painelquick/backend/internal/models"
)

func (r *GormRepo) ListOptionGroups(ctx context.Context, establishmentID uint) ([]models.OptionGroup, error) {
	var out []models.OptionGroup
	err := r.DB.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) FindOptionGroup(ctx context.Context, id uint) (*models.OptionGroup, error) {
	var g models.OptionGroup
	if err := r.first(ctx, &g, id); err != nil {
		return nil, err
	}
	return &g, nil
}

// OptionGroupsOf returns the groups among ids owned by the establishment.
func (r *GormRepo) OptionGroupsOf(ctx context.Context, establishmentID uint, ids []uint) ([]models.OptionGroup, error) {
	var out []models.OptionGroup
	if len(ids) == 0 {
		return out, nil
	}
	err := r.DB.WithContext(ctx).
		Where("establishment_id = ? AND id IN ?", establishmentID, ids).
		Find(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) OptionGroupNameTaken(ctx context.Context, establishmentID uint, name string, exceptID uint) (bool, error) {
	n, err := r.count(ctx, &models.OptionGroup{},
		"establishment_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", establishmentID, name, exceptID)
	return n > 0, err
}

func (r *GormRepo) CreateOptionGroup(ctx context.Context, g *models.OptionGroup) error {
	return r.create(ctx, g)
}

func (r *GormRepo) SaveOptionGroup(ctx context.Context, g *models.OptionGroup) error {
	return r.save(ctx, g)
}

func (r *GormRepo) DeleteOptionGroup(ctx context.Context, id uint) error {
	if err := r.DB.WithContext(ctx).Where("group_id = ?", id).Delete(&models.ProductOptionGroup{}).Error; err != nil {
		return wrap(err)
	}
	return r.deleteByID(ctx, &models.OptionGroup{}, id)
}

func (r *GormRepo) CountOptionsInGroup(ctx context.Context, groupID uint) (int64, error) {
	return r.count(ctx, &models.Option{}, "group_id = ?", groupID)
}

// ListOptions returns the establishment's options with their group name,
// ordered by group name then option name.
func (r *GormRepo) ListOptions(ctx context.Context, establishmentID uint) ([]models.OptionWithGroup, error) {
	var out []models.OptionWithGroup
	err := r.DB.WithContext(ctx).
		Table("options o").
		Select("o.*, g.name AS group_name").
		Joins("JOIN option_groups g ON g.id = o.group_id").
		Where("g.establishment_id = ?", establishmentID).
		Order("g.name ASC, o.name ASC, o.id ASC").
		Scan(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) FindOption(ctx context.Context, id uint) (*models.Option, error) {
	var o models.Option
	if err := r.first(ctx, &o, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// OptionsOf returns the options among ids whose group belongs to the establishment.
func (r *GormRepo) OptionsOf(ctx context.Context, establishmentID uint, ids []uint) ([]models.Option, error) {
	var out []models.Option
	if len(ids) == 0 {
		return out, nil
	}
	err := r.DB.WithContext(ctx).
		Table("options o").
		Select("o.*").
		Joins("JOIN option_groups g ON g.id = o.group_id").
		Where("g.establishment_id = ? AND o.id IN ?", establishmentID, ids).
		Scan(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) OptionNameTaken(ctx context.Context, groupID uint, name string, exceptID uint) (bool, error) {
	n, err := r.count(ctx, &models.Option{}, "group_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", groupID, name, exceptID)
	return n > 0, err
}

func (r *GormRepo) CreateOption(ctx context.Context, o *models.Option) error {
	return r.create(ctx, o)
}

func (r *GormRepo) SaveOption(ctx context.Context, o *models.Option) error {
	return r.save(ctx, o)
}

func (r *GormRepo) DeleteOption(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Option{}, id)
}

func (r *GormRepo) ListAcrescimos(ctx context.Context, establishmentID uint) ([]models.Acrescimo, error) {
	var out []models.Acrescimo
	err := r.DB.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) FindAcrescimo(ctx context.Context, id uint) (*models.Acrescimo, error) {
	var a models.Acrescimo
	if err := r.first(ctx, &a, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) CreateAcrescimo(ctx context.Context, a *models.Acrescimo) error {
	return r.create(ctx, a)
}

func (r *GormRepo) SaveAcrescimo(ctx context.Context, a *models.Acrescimo) error {
	return r.save(ctx, a)
}

func (r *GormRepo) DeleteAcrescimo(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Acrescimo{}, id)
}
