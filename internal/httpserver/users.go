package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/service"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/pkg/logging"
)

type UserHTTP struct {
	Svc       *service.UserService
	Addresses *service.AddressService
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get")

	id, err := pathID(c, l, "get", "id")
	if err != nil {
		return err
	}
	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update")

	id, err := pathID(c, l, "update", "id")
	if err != nil {
		return err
	}
	var req transport.UpdateUserRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	u, err := h.Svc.Update(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update", err)
	}

	l.Info("update_success", "user_id", id)
	return c.JSON(http.StatusOK, map[string]any{"message": "user updated", "user": u})
}

func (h *UserHTTP) Couriers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.couriers")

	users, err := h.Svc.ListCouriers(ctx)
	if err != nil {
		return fail(l, "couriers", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

func (h *UserHTTP) Establishments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.establishments")

	users, err := h.Svc.ListEstablishmentUsers(ctx)
	if err != nil {
		return fail(l, "establishments", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

func (h *UserHTTP) Customers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.customers")

	users, err := h.Svc.ListCustomers(ctx, actor(c).ID)
	if err != nil {
		return fail(l, "customers", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

func (h *UserHTTP) AddressesByPhone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.by_phone")

	res, err := h.Addresses.ByPhone(ctx, c.Param("phone"))
	if err != nil {
		return fail(l, "by_phone", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHTTP) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.list")

	userID, err := pathID(c, l, "list", "userId")
	if err != nil {
		return err
	}
	addrs, err := h.Addresses.List(ctx, actor(c), userID)
	if err != nil {
		return fail(l, "list", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"addresses": addrs})
}

func (h *UserHTTP) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.create")

	var req transport.AddressRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	a, err := h.Addresses.Create(ctx, actor(c), req)
	if err != nil {
		return fail(l, "create", err)
	}

	l.Info("create_success", "address_id", a.ID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "address created", "address": a})
}

func (h *UserHTTP) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.update")

	id, err := pathID(c, l, "update", "addressId")
	if err != nil {
		return err
	}
	var req transport.AddressPatch
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	a, err := h.Addresses.Update(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "address updated", "address": a})
}

func (h *UserHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.delete")

	id, err := pathID(c, l, "delete", "addressId")
	if err != nil {
		return err
	}
	if err := h.Addresses.Delete(ctx, actor(c), id); err != nil {
		return fail(l, "delete", err)
	}

	l.Info("delete_success", "address_id", id)
	return c.JSON(http.StatusOK, map[string]any{"message": "address deleted"})
}

func (h *UserHTTP) SetDefaultAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.set_default")

	id, err := pathID(c, l, "set_default", "addressId")
	if err != nil {
		return err
	}
	a, err := h.Addresses.SetDefault(ctx, actor(c), id)
	if err != nil {
		return fail(l, "set_default", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "default address updated", "address": a})
}
