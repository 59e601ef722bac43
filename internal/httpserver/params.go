package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/middleware/auth"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/util"
)

// actor is the authenticated user. Routes calling it sit behind RequireAuth.
func actor(c echo.Context) *models.User {
	u, _ := auth.CurrentUser(c)
	return u
}

func pathID(c echo.Context, l *slog.Logger, op, name string) (uint, error) {
	id, ok := util.ParseID(c.Param(name))
	if !ok {
		return 0, badRequest(l, op, "invalid "+name, nil)
	}
	return id, nil
}

// establishmentQuery reads the required establishment_id query parameter.
func establishmentQuery(c echo.Context, l *slog.Logger, op string) (uint, error) {
	id, ok := util.ParseID(c.QueryParam("establishment_id"))
	if !ok {
		return 0, badRequest(l, op, "establishment_id is required", nil)
	}
	return id, nil
}
