package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
)

type AddressService struct {
	Repo *repo.GormRepo
}

type PhoneLookup struct {
	User      *models.User         `json:"user"`
	Addresses []models.UserAddress `json:"addresses"`
}

// ByPhone finds a customer by phone together with their saved addresses.
func (s *AddressService) ByPhone(ctx context.Context, phone string) (*PhoneLookup, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone required", ErrValidation)
	}
	u, err := s.Repo.FindCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, notFound(err, "user")
	}
	addrs, err := s.Repo.ListAddresses(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &PhoneLookup{User: u, Addresses: addrs}, nil
}

func (s *AddressService) List(ctx context.Context, actor *models.User, userID uint) ([]models.UserAddress, error) {
	if actor.ID != userID && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot read another user's addresses", ErrForbidden)
	}
	return s.Repo.ListAddresses(ctx, userID)
}

// Create stores a new address. The first address, or one flagged default,
// becomes the only default.
func (s *AddressService) Create(ctx context.Context, actor *models.User, req transport.AddressRequest) (*models.UserAddress, error) {
	a := &models.UserAddress{
		UserID:    actor.ID,
		Label:     strings.TrimSpace(req.Label),
		Address:   strings.TrimSpace(req.Address),
		IsDefault: req.IsDefault,
	}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		n, err := tx.CountAddresses(ctx, actor.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			if err := tx.ClearDefaultAddresses(ctx, actor.ID); err != nil {
				return err
			}
		}
		return tx.CreateAddress(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) owned(ctx context.Context, tx *repo.GormRepo, actor *models.User, id uint) (*models.UserAddress, error) {
	a, err := tx.FindAddress(ctx, id)
	if err != nil {
		return nil, notFound(err, "address")
	}
	if a.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: address not found", ErrNotFound)
	}
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, actor *models.User, id uint, req transport.AddressPatch) (*models.UserAddress, error) {
	var out *models.UserAddress
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		a, err := s.owned(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if req.Label != nil {
			a.Label = strings.TrimSpace(*req.Label)
		}
		if req.Address != nil {
			a.Address = strings.TrimSpace(*req.Address)
		}
		if req.IsDefault != nil && *req.IsDefault && !a.IsDefault {
			if err := tx.ClearDefaultAddresses(ctx, a.UserID); err != nil {
				return err
			}
			a.IsDefault = true
		}
		if err := tx.SaveAddress(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// Delete removes the address. When it was the default, the oldest remaining
// address is promoted.
func (s *AddressService) Delete(ctx context.Context, actor *models.User, id uint) error {
	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		a, err := s.owned(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteAddress(ctx, a.ID); err != nil {
			return notFound(err, "address")
		}
		if !a.IsDefault {
			return nil
		}
		next, err := tx.OldestAddress(ctx, a.UserID)
		if repo.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		next.IsDefault = true
		return tx.SaveAddress(ctx, next)
	})
}

func (s *AddressService) SetDefault(ctx context.Context, actor *models.User, id uint) (*models.UserAddress, error) {
	t := true
	return s.Update(ctx, actor, id, transport.AddressPatch{IsDefault: &t})
}
