package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/pkg/logging"
	"github.com/painelquick/backend/pkg/tokens"
	"gorm.io/gorm"
)

const (
	userKey   = "auth.user"
	claimsKey = "auth.claims"

	AccessCookie = "accessToken"
)

type UserStore interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Guard resolves bearer tokens to users loaded fresh from the store.
type Guard struct {
	Users  UserStore
	Secret []byte
}

func NewGuard(users UserStore, secret []byte) *Guard {
	return &Guard{Users: users, Secret: secret}
}

func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("handler", "auth.guard")

		u, claims, herr := g.authenticate(c)
		if herr != nil {
			l.Warn("auth_error", "status", herr.Code, "reason", herr.Message)
			return herr
		}
		attach(c, u, claims)
		return next(c)
	}
}

// Optional attaches the user when a valid token is present and never rejects.
func (g *Guard) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if u, claims, herr := g.authenticate(c); herr == nil {
			attach(c, u, claims)
		}
		return next(c)
	}
}

// RequireRoles rejects users whose role is not listed. It must run after
// RequireAuth.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token missing")
			}
			if !slices.Contains(roles, u.Role) {
				logging.FromContext(c.Request().Context()).
					Warn("auth_error", "status", 403, "reason", "insufficient permissions", "role", u.Role)
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userKey).(*models.User)
	return u, ok && u != nil
}

func CurrentClaims(c echo.Context) (*tokens.AccessClaims, bool) {
	cl, ok := c.Get(claimsKey).(*tokens.AccessClaims)
	return cl, ok && cl != nil
}

// Token returns the raw access token sent with the request.
func Token(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if ck, err := c.Cookie(AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (g *Guard) authenticate(c echo.Context) (*models.User, *tokens.AccessClaims, *echo.HTTPError) {
	raw := Token(c)
	if raw == "" {
		return nil, nil, unauthorized("access token missing")
	}

	claims, err := tokens.AccessClaimsFromToken(raw, g.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, unauthorized("token expired")
		}
		return nil, nil, unauthorized("invalid token")
	}

	ctx := c.Request().Context()
	if claims.ID != "" {
		revoked, err := g.Users.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
		}
		if revoked {
			return nil, nil, unauthorized("invalid token")
		}
	}

	u, err := g.Users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, unauthorized("user not found")
		}
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
	return u, claims, nil
}

func attach(c echo.Context, u *models.User, claims *tokens.AccessClaims) {
	c.Set(userKey, u)
	c.Set(claimsKey, claims)

	req := c.Request()
	l := logging.FromContext(req.Context()).With("user_id", u.ID, "role", u.Role)
	c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
}

func unauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
