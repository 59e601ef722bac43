package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/pkg/logging"
)

// Option groups, options and acrescimos share CatalogHTTP.

func (h *CatalogHTTP) ListOptionGroups(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "option_groups.list")

	estID, err := establishmentQuery(c, l, "list")
	if err != nil {
		return err
	}
	groups, err := h.Svc.ListOptionGroups(ctx, estID)
	if err != nil {
		return fail(l, "list", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"option_groups": groups})
}

func (h *CatalogHTTP) GetOptionGroup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "option_groups.get")

	id, err := pathID(c, l, "get", "id")
	if err != nil {
		return err
	}
	g, err := h.Svc.GetOptionGroup(ctx, id)
	if err != nil {
		return fail(l, "get", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"option_group": g})
}

func (h *CatalogHTTP) CreateOptionGroup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "option_groups.create")

	var req transport.OptionGroupRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	g, err := h.Svc.CreateOptionGroup(ctx, actor(c), req)
	if err != nil {
		return fail(l, "create", err)
	}

	l.Info("create_success", "group_id", g.ID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "option group created", "option_group": g})
}

func (h *CatalogHTTP) UpdateOptionGroup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "option_groups.update")

	id, err := pathID(c, l, "update", "id")
	if err != nil {
		return err
	}
	var req transport.OptionGroupRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	g, err := h.Svc.UpdateOptionGroup(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "option group updated", "option_group": g})
}

func (h *CatalogHTTP) DeleteOptionGroup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "option_groups.delete")

	id, err := pathID(c, l, "delete", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteOptionGroup(ctx, actor(c), id); err != nil {
		return fail(l, "delete", err)
	}

	l.Info("delete_success", "group_id", id)
	return c.JSON(http.StatusOK, map[string]any{"message": "option group deleted"})
}

func (h *CatalogHTTP) ListOptions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "options.list")

	estID, err := establishmentQuery(c, l, "list")
	if err != nil {
		return err
	}
	opts, err := h.Svc.ListOptions(ctx, estID)
	if err != nil {
		return fail(l, "list", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"options": opts})
}

func (h *CatalogHTTP) GetOption(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "options.get")

	id, err := pathID(c, l, "get", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.GetOption(ctx, id)
	if err != nil {
		return fail(l, "get", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"option": o})
}

func (h *CatalogHTTP) CreateOption(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "options.create")

	var req transport.OptionRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	o, err := h.Svc.CreateOption(ctx, actor(c), req)
	if err != nil {
		return fail(l, "create", err)
	}

	l.Info("create_success", "option_id", o.ID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "option created", "option": o})
}

func (h *CatalogHTTP) UpdateOption(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "options.update")

	id, err := pathID(c, l, "update", "id")
	if err != nil {
		return err
	}
	var req transport.OptionRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	o, err := h.Svc.UpdateOption(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "option updated", "option": o})
}

func (h *CatalogHTTP) DeleteOption(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "options.delete")

	id, err := pathID(c, l, "delete", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteOption(ctx, actor(c), id); err != nil {
		return fail(l, "delete", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "option deleted"})
}

func (h *CatalogHTTP) ListAcrescimos(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "acrescimos.list")

	estID, err := establishmentQuery(c, l, "list")
	if err != nil {
		return err
	}
	items, err := h.Svc.ListAcrescimos(ctx, estID)
	if err != nil {
		return fail(l, "list", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"acrescimos": items})
}

func (h *CatalogHTTP) CreateAcrescimo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "acrescimos.create")

	var req transport.AcrescimoRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	a, err := h.Svc.CreateAcrescimo(ctx, actor(c), req)
	if err != nil {
		return fail(l, "create", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": "acrescimo created", "acrescimo": a})
}

func (h *CatalogHTTP) UpdateAcrescimo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "acrescimos.update")

	id, err := pathID(c, l, "update", "id")
	if err != nil {
		return err
	}
	var req transport.AcrescimoRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	a, err := h.Svc.UpdateAcrescimo(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "acrescimo updated", "acrescimo": a})
}

func (h *CatalogHTTP) DeleteAcrescimo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "acrescimos.delete")

	id, err := pathID(c, l, "delete", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteAcrescimo(ctx, actor(c), id); err != nil {
		return fail(l, "delete", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "acrescimo deleted"})
}
