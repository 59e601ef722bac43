package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, req transport.ProfileRequest) (*models.User, error) {
	fields := map[string]any{
		"name":    strings.TrimSpace(req.Name),
		"phone":   strings.TrimSpace(req.Phone),
		"address": strings.TrimSpace(req.Address),
	}
	if err := s.Repo.UpdateUser(ctx, id, fields); err != nil {
		return nil, notFound(err, "user")
	}
	return s.Get(ctx, id)
}

// Update edits another user's contact fields. Only the user or an admin may.
func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	if actor.ID != id && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot edit another user", ErrForbidden)
	}
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		fields["address"] = strings.TrimSpace(*req.Address)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if err := s.Repo.UpdateUser(ctx, id, fields); err != nil {
		return nil, notFound(err, "user")
	}
	return s.Get(ctx, id)
}

func (s *UserService) ListCouriers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsersByRole(ctx, models.RoleDelivery)
}

func (s *UserService) ListEstablishmentUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsersByRole(ctx, models.RoleEstablishment)
}

func (s *UserService) ListCustomers(ctx context.Context, establishmentID uint) ([]models.User, error) {
	return s.Repo.ListCustomersOf(ctx, establishmentID)
}
