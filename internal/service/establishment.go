package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/internal/util"
	"github.com/painelquick/backend/pkg/logging"
)

type EstablishmentService struct {
	Repo *repo.GormRepo
}

// Establishment is the public card of an establishment.
type Establishment struct {
	ID                     uint                  `json:"id"`
	Name                   string                `json:"name"`
	Email                  string                `json:"email"`
	Phone                  string                `json:"phone"`
	RestaurantName         string                `json:"restaurant_name"`
	Description            string                `json:"description"`
	CuisineType            string                `json:"cuisine_type"`
	LogoURL                string                `json:"logo_url"`
	BannerURL              string                `json:"banner_url"`
	DeliveryFee            float64               `json:"delivery_fee"`
	MinimumOrder           float64               `json:"minimum_order"`
	AcceptedPaymentMethods []string              `json:"accepted_payment_methods"`
	BusinessHours          []models.BusinessHour `json:"business_hours,omitempty"`
}

func card(u models.User, p *models.EstablishmentProfile, detail bool) Establishment {
	e := Establishment{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, RestaurantName: u.Name}
	if p == nil {
		return e
	}
	if p.RestaurantName != "" {
		e.RestaurantName = p.RestaurantName
	}
	e.Description = p.Description
	e.CuisineType = p.CuisineType
	e.LogoURL = p.LogoURL
	e.BannerURL = p.BannerURL
	e.DeliveryFee = p.DeliveryFee
	e.MinimumOrder = p.MinimumOrder
	e.AcceptedPaymentMethods = p.AcceptedPaymentMethods
	if detail {
		e.BusinessHours = p.BusinessHours
	}
	return e
}

// Profile returns the caller's profile, creating the default one on first
// read.
func (s *EstablishmentService) Profile(ctx context.Context, actor *models.User) (*models.EstablishmentProfile, error) {
	p, err := s.Repo.FindProfile(ctx, actor.ID)
	if err == nil {
		return p, nil
	}
	if !repo.IsNotFound(err) {
		return nil, err
	}
	def := models.DefaultProfile(actor.ID, actor.Name)
	if err := s.Repo.CreateProfile(ctx, &def); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("profile_created", "svc", "establishment.profile", "user_id", actor.ID)
	return s.Repo.FindProfile(ctx, actor.ID)
}

// UpdateProfile applies the fields that were sent. Business hours, when
// sent, replace the stored ones.
func (s *EstablishmentService) UpdateProfile(ctx context.Context, actor *models.User, req transport.EstablishmentProfileRequest) (*models.EstablishmentProfile, error) {
	if _, err := s.Profile(ctx, actor); err != nil {
		return nil, err
	}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		p, err := tx.FindProfile(ctx, actor.ID)
		if err != nil {
			return err
		}
		applyProfile(p, req)
		if err := tx.SaveProfile(ctx, p); err != nil {
			return err
		}
		if req.BusinessHours == nil {
			return nil
		}
		hours := make([]models.BusinessHour, 0, len(req.BusinessHours))
		seen := map[int]bool{}
		for _, h := range req.BusinessHours {
			if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
				return fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrValidation)
			}
			if seen[h.DayOfWeek] {
				return fmt.Errorf("%w: day %d listed twice", ErrValidation, h.DayOfWeek)
			}
			seen[h.DayOfWeek] = true
			hours = append(hours, models.BusinessHour{
				DayOfWeek: h.DayOfWeek,
				OpenTime:  h.OpenTime,
				CloseTime: h.CloseTime,
				IsClosed:  h.IsClosed,
			})
		}
		return tx.ReplaceBusinessHours(ctx, actor.ID, hours)
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.FindProfile(ctx, actor.ID)
}

func applyProfile(p *models.EstablishmentProfile, req transport.EstablishmentProfileRequest) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.RestaurantName, req.RestaurantName)
	set(&p.Description, req.Description)
	set(&p.CuisineType, req.CuisineType)
	set(&p.LogoURL, req.LogoURL)
	set(&p.BannerURL, req.BannerURL)
	set(&p.PixKey, req.PixKey)
	set(&p.Instagram, req.Instagram)
	set(&p.Whatsapp, req.Whatsapp)
	if req.DeliveryRadius != nil {
		p.DeliveryRadius = *req.DeliveryRadius
	}
	if req.MinimumOrder != nil {
		p.MinimumOrder = *req.MinimumOrder
	}
	if req.DeliveryFee != nil {
		p.DeliveryFee = *req.DeliveryFee
	}
	if req.AcceptedPaymentMethods != nil {
		p.AcceptedPaymentMethods = req.AcceptedPaymentMethods
	}
	if req.OnlyLinkedDelivery != nil {
		p.OnlyLinkedDelivery = *req.OnlyLinkedDelivery
	}
}

func (s *EstablishmentService) SetLogo(ctx context.Context, actor *models.User, url string) (*models.EstablishmentProfile, error) {
	return s.UpdateProfile(ctx, actor, transport.EstablishmentProfileRequest{LogoURL: &url})
}

func (s *EstablishmentService) SetBanner(ctx context.Context, actor *models.User, url string) (*models.EstablishmentProfile, error) {
	return s.UpdateProfile(ctx, actor, transport.EstablishmentProfileRequest{BannerURL: &url})
}

func (s *EstablishmentService) List(ctx context.Context) ([]Establishment, error) {
	users, err := s.Repo.ListUsersByRole(ctx, models.RoleEstablishment)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	profiles, err := s.Repo.ProfilesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Establishment, 0, len(users))
	for _, u := range users {
		var p *models.EstablishmentProfile
		if v, ok := profiles[u.ID]; ok {
			p = &v
		}
		out = append(out, card(u, p, false))
	}
	return out, nil
}

func (s *EstablishmentService) Get(ctx context.Context, id uint) (*Establishment, error) {
	u, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "establishment")
	}
	if u.Role != models.RoleEstablishment {
		return nil, fmt.Errorf("%w: establishment not found", ErrNotFound)
	}
	p, err := s.Repo.FindProfile(ctx, id)
	if err != nil && !repo.IsNotFound(err) {
		return nil, err
	}
	e := card(*u, p, true)
	return &e, nil
}

func (s *EstablishmentService) CuisineTypes(ctx context.Context) ([]string, error) {
	out, err := s.Repo.CuisineTypes(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// History pages through the establishment's delivery history snapshots.
func (s *EstablishmentService) History(ctx context.Context, actor *models.User, page, size int) ([]models.DeliveryHistory, util.Meta, error) {
	offset, limit := util.Calculate(page, size)
	total, rows, err := s.Repo.ListHistory(ctx, actor.ID, offset, limit)
	if err != nil {
		return nil, util.Meta{}, err
	}
	if rows == nil {
		rows = []models.DeliveryHistory{}
	}
	return rows, util.NewMeta(page, offset, limit, total), nil
}
