package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
	pkg_hash "github.com/painelquick/backend/pkg/hash"
	"github.com/painelquick/backend/pkg/logging"
	"github.com/painelquick/backend/pkg/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) issue(u *models.User) (*LoginResult, error) {
	tok, claims, err := tokens.IssueAccessToken(s.JWTSecret, u.ID, u.Email, string(u.Role), s.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: tok, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Login checks the password against the stored bcrypt hash only. Rows still
// holding a legacy plaintext password never match until migrated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !pkg_hash.IsHash(u.Password) {
		l.Warn("login_error", "reason", "legacy password not migrated", "user_id", u.ID)
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if !pkg_hash.CheckPassword(u.Password, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.issue(u)
}

// Register creates an establishment account together with its default profile.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.Repo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !repo.IsNotFound(err) {
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: pwHash,
		Role:     models.RoleEstablishment,
		Phone:    req.SupportPhone,
		CpfCnpj:  req.CpfCnpj,
	}
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		p := models.DefaultProfile(u.ID, u.Name)
		p.Whatsapp = req.SupportPhone
		return tx.CreateProfile(ctx, &p)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *tokens.AccessClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	exp := time.Now().Add(s.TokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return s.Repo.RevokeToken(ctx, claims.ID, claims.UserID, exp)
}

// Refresh issues a new token for an authenticated user and revokes the old one.
func (s *AuthService) Refresh(ctx context.Context, u *models.User, old *tokens.AccessClaims) (*LoginResult, error) {
	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.Logout(ctx, old); err != nil {
		return nil, err
	}
	return res, nil
}

type MigrationReport struct {
	Scanned  int
	Migrated int
}

// MigrateLegacyPasswords replaces every non-hash password with its bcrypt hash.
func (s *AuthService) MigrateLegacyPasswords(ctx context.Context) (MigrationReport, error) {
	l := logging.FromContext(ctx).With("svc", "auth.migrate_passwords")

	var rep MigrationReport
	users, err := s.Repo.ListAllUsers(ctx)
	if err != nil {
		return rep, err
	}
	for _, u := range users {
		rep.Scanned++
		if pkg_hash.IsHash(u.Password) {
			continue
		}
		h, err := pkg_hash.HashPassword(u.Password)
		if err != nil {
			return rep, fmt.Errorf("hash password of user %d: %w", u.ID, err)
		}
		if err := s.Repo.SetPassword(ctx, u.ID, h); err != nil {
			return rep, err
		}
		rep.Migrated++
		l.Info("password_migrated", "user_id", u.ID)
	}
	return rep, nil
}
