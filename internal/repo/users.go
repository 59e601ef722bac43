package repo

import (
	"context"
	"time"

	"github.com/painelquick/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.first(ctx, &u, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindCustomerByPhone matches CUSTOMER accounts only.
func (r *GormRepo) FindCustomerByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).
		Where("phone = ? AND role = ?", phone, models.RoleCustomer).
		Order("id ASC").
		First(&u).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.create(ctx, u)
}

func (r *GormRepo) UpdateUser(ctx context.Context, id uint, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormRepo) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Where("role = ?", role).Order("name ASC").Find(&users).Error
	return users, wrap(err)
}

// ListCustomersOf returns every customer that ordered from the establishment.
func (r *GormRepo) ListCustomersOf(ctx context.Context, establishmentID uint) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).
		Where("id IN (?)", r.DB.Model(&models.Order{}).Select("customer_id").Where("establishment_id = ?", establishmentID)).
		Where("role = ?", models.RoleCustomer).
		Order("name ASC").
		Find(&users).Error
	return users, wrap(err)
}

func (r *GormRepo) ListAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, wrap(err)
}

func (r *GormRepo) SetPassword(ctx context.Context, userID uint, hash string) error {
	return r.UpdateUser(ctx, userID, map[string]any{"password": hash})
}

func (r *GormRepo) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	t := models.RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&t).Error
	return wrap(err)
}

func (r *GormRepo) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.count(ctx, &models.RevokedToken{}, "jti = ?", jti)
	return n > 0, err
}

func (r *GormRepo) PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return res.RowsAffected, wrap(res.Error)
}
