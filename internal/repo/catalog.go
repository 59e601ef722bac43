package repo

import (
	"context"
	"strings"

	"github.com/painelquick/backend/internal/models"
	"gorm.io/gorm"
)

const productWithCategory = "p.*, c.name AS category_name, COALESCE(NULLIF(ep.restaurant_name, ''), u.name) AS establishment_name"

func (r *GormRepo) productQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("products p").
		Select(productWithCategory).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN users u ON u.id = p.establishment_id").
		Joins("LEFT JOIN establishment_profile ep ON ep.user_id = p.establishment_id")
}

// ListProducts returns the establishment's products with their category
// name, ordered by product name.
func (r *GormRepo) ListProducts(ctx context.Context, establishmentID uint) ([]models.ProductWithCategory, error) {
	var out []models.ProductWithCategory
	err := r.productQuery(ctx).
		Where("p.establishment_id = ?", establishmentID).
		Order("p.name ASC, p.id ASC").
		Scan(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) ListProductsByCategory(ctx context.Context, categoryID uint) ([]models.ProductWithCategory, error) {
	var out []models.ProductWithCategory
	err := r.productQuery(ctx).
		Where("p.category_id = ?", categoryID).
		Order("p.name ASC, p.id ASC").
		Scan(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) FindProduct(ctx context.Context, id uint) (*models.ProductWithCategory, error) {
	var out []models.ProductWithCategory
	if err := r.productQuery(ctx).Where("p.id = ?", id).Limit(1).Scan(&out).Error; err != nil {
		return nil, wrap(err)
	}
	if len(out) == 0 {
		return nil, wrap(gorm.ErrRecordNotFound)
	}
	return &out[0], nil
}

// SearchProducts is the database fallback for product search.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, establishmentID uint, offset, limit int) (int64, []models.ProductWithCategory, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("(LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ?)", like, like)
		if establishmentID != 0 {
			db = db.Where("p.establishment_id = ?", establishmentID)
		}
		return db
	}

	var total int64
	if err := filter(r.DB.WithContext(ctx).Table("products p")).Count(&total).Error; err != nil {
		return 0, nil, wrap(err)
	}

	out := make([]models.ProductWithCategory, 0, limit)
	err := filter(r.productQuery(ctx)).
		Order("p.name ASC, p.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return 0, nil, wrap(err)
	}
	return total, out, nil
}

// ProductsOf returns the products among ids that belong to the establishment.
func (r *GormRepo) ProductsOf(ctx context.Context, establishmentID uint, ids []uint) ([]models.Product, error) {
	var out []models.Product
	if len(ids) == 0 {
		return out, nil
	}
	err := r.DB.WithContext(ctx).
		Where("establishment_id = ? AND id IN ?", establishmentID, ids).
		Find(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.create(ctx, p)
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.save(ctx, p)
}

func (r *GormRepo) FindPlainProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.first(ctx, &p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes the product and its group links.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	if err := r.DB.WithContext(ctx).Where("product_id = ?", id).Delete(&models.ProductOptionGroup{}).Error; err != nil {
		return wrap(err)
	}
	return r.deleteByID(ctx, &models.Product{}, id)
}

// SetProductGroups replaces the option groups linked to a product.
func (r *GormRepo) SetProductGroups(ctx context.Context, productID uint, groupIDs []uint) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&models.ProductOptionGroup{}).Error; err != nil {
		return wrap(err)
	}
	seen := make(map[uint]struct{}, len(groupIDs))
	links := make([]models.ProductOptionGroup, 0, len(groupIDs))
	for _, g := range groupIDs {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		links = append(links, models.ProductOptionGroup{ProductID: productID, GroupID: g})
	}
	if len(links) == 0 {
		return nil
	}
	return wrap(db.Create(&links).Error)
}

type ProductGroupRow struct {
	ProductID     uint
	GroupID       uint
	Name          string
	ProductType   string
	MinSelections int
	MaxSelections int
	IsRequired    bool
}

func (r *GormRepo) GroupsForProducts(ctx context.Context, productIDs []uint) ([]ProductGroupRow, error) {
	var out []ProductGroupRow
	if len(productIDs) == 0 {
		return out, nil
	}
	err := r.Execute(ctx, &out, `
		SELECT pog.product_id, g.id AS group_id, g.name, g.product_type,
		       g.min_selections, g.max_selections, g.is_required
		FROM product_option_groups pog
		JOIN option_groups g ON g.id = pog.group_id
		WHERE pog.product_id IN ?
		ORDER BY pog.product_id ASC, g.name ASC, g.id ASC`, productIDs)
	return out, err
}

func (r *GormRepo) OptionsForGroups(ctx context.Context, groupIDs []uint) ([]models.Option, error) {
	var out []models.Option
	if len(groupIDs) == 0 {
		return out, nil
	}
	err := r.DB.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, wrap(err)
}

// ListCategories returns every category ordered by name.
func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.first(ctx, &c, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CategoryNameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	n, err := r.count(ctx, &models.Category{}, "LOWER(name) = LOWER(?) AND id <> ?", name, exceptID)
	return n > 0, err
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.create(ctx, c)
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.save(ctx, c)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, &models.Category{}, id)
}

func (r *GormRepo) CountProductsInCategory(ctx context.Context, id uint) (int64, error) {
	return r.count(ctx, &models.Product{}, "category_id = ?", id)
}
