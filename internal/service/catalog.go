package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/pkg/logging"
)

// ProductIndex mirrors product writes into the search backend.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.ProductWithCategory) error
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductSearcher interface {
	SearchProducts(ctx context.Context, q string, establishmentID uint, offset, limit int) (int64, []models.ProductWithCategory, error)
}

type CatalogService struct {
	Repo     *repo.GormRepo
	Index    ProductIndex
	Searcher ProductSearcher
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.Repo.FindCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.checkCategoryName(ctx, name, 0); err != nil {
		return nil, err
	}
	c := &models.Category{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*models.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.checkCategoryName(ctx, name, id); err != nil {
		return nil, err
	}
	c.Name = name
	c.Description = strings.TrimSpace(req.Description)
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) checkCategoryName(ctx context.Context, name string, exceptID uint) error {
	if n := len([]rune(name)); n < 2 || n > 50 {
		return fmt.Errorf("%w: category name must have 2 to 50 characters", ErrValidation)
	}
	taken, err := s.Repo.CategoryNameTaken(ctx, name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: category name already exists", ErrValidation)
	}
	return nil
}

// DeleteCategory refuses while any product still uses the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	n, err := s.Repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category has %d products", ErrValidation, n)
	}
	return notFound(s.Repo.DeleteCategory(ctx, id), "category")
}

func (s *CatalogService) CategoryProducts(ctx context.Context, id uint) ([]models.ProductWithCategory, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	return s.Repo.ListProductsByCategory(ctx, id)
}

// Menu returns the establishment's products with their option groups and
// options nested.
func (s *CatalogService) Menu(ctx context.Context, establishmentID uint) ([]models.MenuProduct, error) {
	products, err := s.Repo.ListProducts(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	return s.nest(ctx, products)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.MenuProduct, error) {
	p, err := s.Repo.FindProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	out, err := s.nest(ctx, []models.ProductWithCategory{*p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *CatalogService) nest(ctx context.Context, products []models.ProductWithCategory) ([]models.MenuProduct, error) {
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	groupRows, err := s.Repo.GroupsForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	groupIDs := make([]uint, 0, len(groupRows))
	seen := map[uint]struct{}{}
	for _, g := range groupRows {
		if _, ok := seen[g.GroupID]; !ok {
			seen[g.GroupID] = struct{}{}
			groupIDs = append(groupIDs, g.GroupID)
		}
	}
	opts, err := s.Repo.OptionsForGroups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	optsByGroup := map[uint][]models.OptionView{}
	for _, o := range opts {
		optsByGroup[o.GroupID] = append(optsByGroup[o.GroupID], models.OptionView{
			ID: o.ID, Name: o.Name, Price: o.AdditionalPrice, Description: o.Description, IsAvailable: o.IsAvailable,
		})
	}

	groupsByProduct := map[uint][]models.AdditionalGroup{}
	for _, g := range groupRows {
		options := optsByGroup[g.GroupID]
		if options == nil {
			options = []models.OptionView{}
		}
		groupsByProduct[g.ProductID] = append(groupsByProduct[g.ProductID], models.AdditionalGroup{
			ID:            g.GroupID,
			Name:          g.Name,
			Type:          g.ProductType,
			MinSelections: g.MinSelections,
			MaxSelections: g.MaxSelections,
			IsRequired:    g.IsRequired,
			Options:       options,
		})
	}

	out := make([]models.MenuProduct, len(products))
	for i, p := range products {
		groups := groupsByProduct[p.ID]
		if groups == nil {
			groups = []models.AdditionalGroup{}
		}
		out[i] = models.MenuProduct{
			ID:               p.ID,
			Name:             p.Name,
			Description:      p.Description,
			Price:            p.Price,
			ImageURL:         p.ImageURL,
			IsAvailable:      p.IsAvailable,
			Category:         models.CategoryRef{ID: p.CategoryID, Name: p.CategoryName},
			AdditionalGroups: groups,
		}
	}
	return out, nil
}

func (s *CatalogService) EstablishmentProducts(ctx context.Context, establishmentID uint) ([]models.ProductWithCategory, error) {
	return s.Repo.ListProducts(ctx, establishmentID)
}

func (s *CatalogService) Search(ctx context.Context, q string, establishmentID uint, offset, limit int) (int64, []models.ProductWithCategory, error) {
	if s.Searcher != nil {
		return s.Searcher.SearchProducts(ctx, q, establishmentID, offset, limit)
	}
	return s.Repo.SearchProducts(ctx, q, establishmentID, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, actor *models.User, req transport.ProductRequest) (*models.MenuProduct, error) {
	if _, err := s.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, fmt.Errorf("%w: category not found", ErrValidation)
	}
	p := &models.Product{
		EstablishmentID: actor.ID,
		CategoryID:      req.CategoryID,
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		Price:           round2(req.Price),
		ImageURL:        req.ImageURL,
		IsAvailable:     req.IsAvailable == nil || *req.IsAvailable,
	}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.CreateProduct(ctx, p); err != nil {
			return err
		}
		return s.setGroups(ctx, tx, actor.ID, p.ID, req.AdditionalGroups)
	})
	if err != nil {
		return nil, err
	}
	return s.afterWrite(ctx, p.ID)
}

func (s *CatalogService) ownedProduct(ctx context.Context, tx *repo.GormRepo, actor *models.User, id uint) (*models.Product, error) {
	p, err := tx.FindPlainProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if p.EstablishmentID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: product not found", ErrNotFound)
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, actor *models.User, id uint, req transport.ProductRequest) (*models.MenuProduct, error) {
	if _, err := s.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, fmt.Errorf("%w: category not found", ErrValidation)
	}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		p, err := s.ownedProduct(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		p.CategoryID = req.CategoryID
		p.Name = strings.TrimSpace(req.Name)
		p.Description = strings.TrimSpace(req.Description)
		p.Price = round2(req.Price)
		if req.ImageURL != "" {
			p.ImageURL = req.ImageURL
		}
		if req.IsAvailable != nil {
			p.IsAvailable = *req.IsAvailable
		}
		if err := tx.SaveProduct(ctx, p); err != nil {
			return err
		}
		if req.AdditionalGroups == nil {
			return nil
		}
		return s.setGroups(ctx, tx, p.EstablishmentID, p.ID, req.AdditionalGroups)
	})
	if err != nil {
		return nil, err
	}
	return s.afterWrite(ctx, id)
}

func (s *CatalogService) SetProductGroups(ctx context.Context, actor *models.User, id uint, groupIDs []uint) (*models.MenuProduct, error) {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		p, err := s.ownedProduct(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		return s.setGroups(ctx, tx, p.EstablishmentID, p.ID, groupIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *CatalogService) setGroups(ctx context.Context, tx *repo.GormRepo, establishmentID, productID uint, groupIDs []uint) error {
	if len(groupIDs) > 0 {
		owned, err := tx.OptionGroupsOf(ctx, establishmentID, groupIDs)
		if err != nil {
			return err
		}
		known := make(map[uint]struct{}, len(owned))
		for _, g := range owned {
			known[g.ID] = struct{}{}
		}
		for _, id := range groupIDs {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("%w: option group %d not found", ErrValidation, id)
			}
		}
	}
	return tx.SetProductGroups(ctx, productID, groupIDs)
}

// SetProductImage records an uploaded image URL on the product.
func (s *CatalogService) SetProductImage(ctx context.Context, actor *models.User, id uint, url string) (*models.MenuProduct, error) {
	p, err := s.ownedProduct(ctx, s.Repo, actor, id)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return s.afterWrite(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, actor *models.User, id uint) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := s.ownedProduct(ctx, tx, actor, id); err != nil {
			return err
		}
		return notFound(tx.DeleteProduct(ctx, id), "product")
	})
	if err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("product_unindex_error", "svc", "catalog", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) afterWrite(ctx context.Context, id uint) (*models.MenuProduct, error) {
	if s.Index != nil {
		if p, err := s.Repo.FindProduct(ctx, id); err == nil {
			if err := s.Index.IndexProduct(ctx, *p); err != nil {
				logging.FromContext(ctx).Warn("product_index_error", "svc", "catalog", "product_id", id, "error", err)
			}
		}
	}
	return s.GetProduct(ctx, id)
}
