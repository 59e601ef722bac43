package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
)

func (s *CatalogService) ListOptionGroups(ctx context.Context, establishmentID uint) ([]models.OptionGroup, error) {
	return s.Repo.ListOptionGroups(ctx, establishmentID)
}

func (s *CatalogService) ownedGroup(ctx context.Context, actor *models.User, id uint) (*models.OptionGroup, error) {
	g, err := s.Repo.FindOptionGroup(ctx, id)
	if err != nil {
		return nil, notFound(err, "option group")
	}
	if g.EstablishmentID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: option group not found", ErrNotFound)
	}
	return g, nil
}

func (s *CatalogService) GetOptionGroup(ctx context.Context, id uint) (*models.OptionGroup, error) {
	g, err := s.Repo.FindOptionGroup(ctx, id)
	if err != nil {
		return nil, notFound(err, "option group")
	}
	return g, nil
}

func (s *CatalogService) checkGroup(ctx context.Context, establishmentID uint, req transport.OptionGroupRequest, exceptID uint) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: group name required", ErrValidation)
	}
	if req.MinSelections < 0 {
		return fmt.Errorf("%w: min_selections must be zero or greater", ErrValidation)
	}
	if req.MaxSelections < req.MinSelections {
		return fmt.Errorf("%w: max_selections must be greater than or equal to min_selections", ErrValidation)
	}
	taken, err := s.Repo.OptionGroupNameTaken(ctx, establishmentID, strings.TrimSpace(req.Name), exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: a group with this name already exists", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateOptionGroup(ctx context.Context, actor *models.User, req transport.OptionGroupRequest) (*models.OptionGroup, error) {
	if err := s.checkGroup(ctx, actor.ID, req, 0); err != nil {
		return nil, err
	}
	g := &models.OptionGroup{
		EstablishmentID: actor.ID,
		Name:            strings.TrimSpace(req.Name),
		ProductType:     strings.TrimSpace(req.ProductType),
		MinSelections:   req.MinSelections,
		MaxSelections:   req.MaxSelections,
		IsRequired:      req.IsRequired,
	}
	if err := s.Repo.CreateOptionGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *CatalogService) UpdateOptionGroup(ctx context.Context, actor *models.User, id uint, req transport.OptionGroupRequest) (*models.OptionGroup, error) {
	g, err := s.ownedGroup(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, g.EstablishmentID, req, id); err != nil {
		return nil, err
	}
	g.Name = strings.TrimSpace(req.Name)
	g.ProductType = strings.TrimSpace(req.ProductType)
	g.MinSelections = req.MinSelections
	g.MaxSelections = req.MaxSelections
	g.IsRequired = req.IsRequired
	if err := s.Repo.SaveOptionGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteOptionGroup refuses while the group still has options.
func (s *CatalogService) DeleteOptionGroup(ctx context.Context, actor *models.User, id uint) error {
	g, err := s.ownedGroup(ctx, actor, id)
	if err != nil {
		return err
	}
	n, err := s.Repo.CountOptionsInGroup(ctx, g.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: group still has %d options", ErrValidation, n)
	}
	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return notFound(tx.DeleteOptionGroup(ctx, g.ID), "option group")
	})
}

func (s *CatalogService) ListOptions(ctx context.Context, establishmentID uint) ([]models.OptionWithGroup, error) {
	return s.Repo.ListOptions(ctx, establishmentID)
}

func (s *CatalogService) GetOption(ctx context.Context, id uint) (*models.Option, error) {
	o, err := s.Repo.FindOption(ctx, id)
	if err != nil {
		return nil, notFound(err, "option")
	}
	return o, nil
}

func (s *CatalogService) checkOption(ctx context.Context, actor *models.User, req transport.OptionRequest, exceptID uint) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: option name required", ErrValidation)
	}
	if req.AdditionalPrice < 0 {
		return fmt.Errorf("%w: additional_price must be zero or greater", ErrValidation)
	}
	g, err := s.Repo.FindOptionGroup(ctx, req.GroupID)
	if err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: group not found", ErrValidation)
		}
		return err
	}
	if g.EstablishmentID != actor.ID && actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: group not found", ErrValidation)
	}
	taken, err := s.Repo.OptionNameTaken(ctx, req.GroupID, strings.TrimSpace(req.Name), exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: an option with this name already exists in the group", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateOption(ctx context.Context, actor *models.User, req transport.OptionRequest) (*models.Option, error) {
	if err := s.checkOption(ctx, actor, req, 0); err != nil {
		return nil, err
	}
	o := &models.Option{
		GroupID:         req.GroupID,
		Name:            strings.TrimSpace(req.Name),
		AdditionalPrice: round2(req.AdditionalPrice),
		Description:     strings.TrimSpace(req.Description),
		IsAvailable:     req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := s.Repo.CreateOption(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *CatalogService) ownedOption(ctx context.Context, actor *models.User, id uint) (*models.Option, error) {
	o, err := s.GetOption(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedGroup(ctx, actor, o.GroupID); err != nil {
		return nil, fmt.Errorf("%w: option not found", ErrNotFound)
	}
	return o, nil
}

func (s *CatalogService) UpdateOption(ctx context.Context, actor *models.User, id uint, req transport.OptionRequest) (*models.Option, error) {
	o, err := s.ownedOption(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOption(ctx, actor, req, id); err != nil {
		return nil, err
	}
	o.GroupID = req.GroupID
	o.Name = strings.TrimSpace(req.Name)
	o.AdditionalPrice = round2(req.AdditionalPrice)
	o.Description = strings.TrimSpace(req.Description)
	if req.IsAvailable != nil {
		o.IsAvailable = *req.IsAvailable
	}
	if err := s.Repo.SaveOption(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *CatalogService) DeleteOption(ctx context.Context, actor *models.User, id uint) error {
	o, err := s.ownedOption(ctx, actor, id)
	if err != nil {
		return err
	}
	return notFound(s.Repo.DeleteOption(ctx, o.ID), "option")
}

func (s *CatalogService) ListAcrescimos(ctx context.Context, establishmentID uint) ([]models.Acrescimo, error) {
	return s.Repo.ListAcrescimos(ctx, establishmentID)
}

func (s *CatalogService) CreateAcrescimo(ctx context.Context, actor *models.User, req transport.AcrescimoRequest) (*models.Acrescimo, error) {
	if strings.TrimSpace(req.Name) == "" || req.Price < 0 {
		return nil, fmt.Errorf("%w: name and a non-negative price are required", ErrValidation)
	}
	a := &models.Acrescimo{EstablishmentID: actor.ID, Name: strings.TrimSpace(req.Name), Price: round2(req.Price)}
	if err := s.Repo.CreateAcrescimo(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) ownedAcrescimo(ctx context.Context, actor *models.User, id uint) (*models.Acrescimo, error) {
	a, err := s.Repo.FindAcrescimo(ctx, id)
	if err != nil {
		return nil, notFound(err, "addition")
	}
	if a.EstablishmentID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: addition not found", ErrNotFound)
	}
	return a, nil
}

func (s *CatalogService) UpdateAcrescimo(ctx context.Context, actor *models.User, id uint, req transport.AcrescimoRequest) (*models.Acrescimo, error) {
	a, err := s.ownedAcrescimo(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || req.Price < 0 {
		return nil, fmt.Errorf("%w: name and a non-negative price are required", ErrValidation)
	}
	a.Name = strings.TrimSpace(req.Name)
	a.Price = round2(req.Price)
	if err := s.Repo.SaveAcrescimo(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) DeleteAcrescimo(ctx context.Context, actor *models.User, id uint) error {
	a, err := s.ownedAcrescimo(ctx, actor, id)
	if err != nil {
		return err
	}
	return notFound(s.Repo.DeleteAcrescimo(ctx, a.ID), "addition")
}
