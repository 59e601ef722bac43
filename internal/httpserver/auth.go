package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/middleware/auth"
	"github.com/painelquick/backend/internal/service"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/pkg/logging"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	Users        *service.UserService
	SecureCookie bool
}

func (h *AuthHTTP) setCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     auth.AccessCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}
	h.setCookie(c, res.Token, res.ExpiresAt)

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{Message: "login successful", User: res.User, Token: res.Token})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	u, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "user_id", u.ID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "establishment registered", "user": u})
}

func (h *AuthHTTP) Validate(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"valid": true, "user": actor(c)})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	claims, _ := auth.CurrentClaims(c)
	if err := h.Svc.Logout(ctx, claims); err != nil {
		return fail(l, "logout", err)
	}
	c.SetCookie(&http.Cookie{Name: auth.AccessCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	l.Info("logout_success")
	return c.JSON(http.StatusOK, map[string]any{"message": "logged out"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	claims, _ := auth.CurrentClaims(c)
	res, err := h.Svc.Refresh(ctx, actor(c), claims)
	if err != nil {
		return fail(l, "refresh", err)
	}
	h.setCookie(c, res.Token, res.ExpiresAt)

	l.Info("refresh_success")
	return c.JSON(http.StatusOK, transport.LoginResponse{Message: "token refreshed", User: res.User, Token: res.Token})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"user": actor(c)})
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")

	var req transport.ProfileRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	u, err := h.Users.UpdateProfile(ctx, actor(c).ID, req)
	if err != nil {
		return fail(l, "update_profile", err)
	}

	l.Info("update_profile_success")
	return c.JSON(http.StatusOK, map[string]any{"message": "profile updated", "user": u})
}
