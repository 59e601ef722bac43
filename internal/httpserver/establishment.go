package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/service"
	"github.com/painelquick/backend/internal/storage"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/internal/util"
	"github.com/painelquick/backend/pkg/logging"
)

type EstablishmentHTTP struct {
	Svc       *service.EstablishmentService
	Orders    *service.OrderService
	Delivery  *service.DeliveryService
	Dashboard *service.DashboardService
	Uploads   *storage.Local
}

func (h *EstablishmentHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.profile")

	p, err := h.Svc.Profile(ctx, actor(c))
	if err != nil {
		return fail(l, "profile", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"profile": p})
}

func (h *EstablishmentHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.update_profile")

	var req transport.EstablishmentProfileRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	p, err := h.Svc.UpdateProfile(ctx, actor(c), req)
	if err != nil {
		return fail(l, "update_profile", err)
	}

	l.Info("update_profile_success")
	return c.JSON(http.StatusOK, map[string]any{"message": "profile updated", "profile": p})
}

func (h *EstablishmentHTTP) upload(c echo.Context, kind string, set func(u *models.User, url string) (*models.EstablishmentProfile, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.upload_"+kind)

	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(l, "upload", "image file is required", err)
	}
	url, err := h.Uploads.SaveImage(kind, fh)
	if err != nil {
		return fail(l, "upload", err)
	}
	p, err := set(actor(c), url)
	if err != nil {
		return fail(l, "upload", err)
	}

	l.Info("upload_success", "url", url)
	return c.JSON(http.StatusOK, map[string]any{"message": kind + " uploaded", "url": url, "profile": p})
}

func (h *EstablishmentHTTP) UploadLogo(c echo.Context) error {
	return h.upload(c, "logo", func(u *models.User, url string) (*models.EstablishmentProfile, error) {
		return h.Svc.SetLogo(c.Request().Context(), u, url)
	})
}

func (h *EstablishmentHTTP) UploadBanner(c echo.Context) error {
	return h.upload(c, "banner", func(u *models.User, url string) (*models.EstablishmentProfile, error) {
		return h.Svc.SetBanner(c.Request().Context(), u, url)
	})
}

func (h *EstablishmentHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.orders")

	orders, err := h.Orders.EstablishmentOrders(ctx, actor(c), c.QueryParam("status"))
	if err != nil {
		return fail(l, "orders", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

func (h *EstablishmentHTTP) ReadyForDelivery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.ready_for_delivery")

	orders, err := h.Orders.ReadyForDelivery(ctx, actor(c))
	if err != nil {
		return fail(l, "ready_for_delivery", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

func (h *EstablishmentHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.order")

	id, err := pathID(c, l, "order", "id")
	if err != nil {
		return err
	}
	o, err := h.Orders.EstablishmentOrder(ctx, actor(c), id)
	if err != nil {
		return fail(l, "order", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"order": o})
}

func (h *EstablishmentHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.update_status")

	id, err := pathID(c, l, "update_status", "id")
	if err != nil {
		return err
	}
	var req transport.StatusRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	o, err := h.Orders.UpdateStatus(ctx, actor(c), id, req.Status)
	if err != nil {
		return fail(l, "update_status", err)
	}

	l.Info("update_status_success", "order_id", id, "new_status", o.Status)
	return c.JSON(http.StatusOK, map[string]any{"message": "status updated", "status": o.Status, "order": o})
}

func (h *EstablishmentHTTP) FullUpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.full_update")

	id, err := pathID(c, l, "full_update", "id")
	if err != nil {
		return err
	}
	var req transport.FullOrderUpdate
	if err := bindValid(c, &req); err != nil {
		l.Warn("full_update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	o, err := h.Orders.FullUpdate(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "full_update", err)
	}

	l.Info("full_update_success", "order_id", id, "total", o.TotalAmount)
	return c.JSON(http.StatusOK, map[string]any{"message": "order updated", "order": o})
}

func (h *EstablishmentHTTP) DashboardData(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.dashboard")

	d, err := h.Dashboard.Build(ctx, actor(c))
	if err != nil {
		return fail(l, "dashboard", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *EstablishmentHTTP) CuisineTypes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.cuisine_types")

	types, err := h.Svc.CuisineTypes(ctx)
	if err != nil {
		return fail(l, "cuisine_types", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cuisine_types": types})
}

func (h *EstablishmentHTTP) Couriers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.delivery_people")

	couriers, err := h.Delivery.ListLinked(ctx, actor(c))
	if err != nil {
		return fail(l, "delivery_people", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"delivery_people": couriers})
}

func (h *EstablishmentHTTP) LinkCourier(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.link_delivery")

	var req transport.LinkCourierRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("link_delivery_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	if err := h.Delivery.Link(ctx, actor(c), req.DeliveryID); err != nil {
		return fail(l, "link_delivery", err)
	}

	l.Info("link_delivery_success", "delivery_id", req.DeliveryID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "delivery person linked"})
}

func (h *EstablishmentHTTP) UnlinkCourier(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.unlink_delivery")

	id, err := pathID(c, l, "unlink_delivery", "id")
	if err != nil {
		return err
	}
	if err := h.Delivery.Unlink(ctx, actor(c), id); err != nil {
		return fail(l, "unlink_delivery", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "delivery person unlinked"})
}

func (h *EstablishmentHTTP) AssignAuto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.assign_delivery_auto")

	id, err := pathID(c, l, "assign", "id")
	if err != nil {
		return err
	}
	res, err := h.Delivery.AssignAuto(ctx, actor(c), id)
	if err != nil {
		return fail(l, "assign", err)
	}

	l.Info("assign_success", "order_id", id, "delivery_id", res.DeliveryID)
	return c.JSON(http.StatusOK, res)
}

func (h *EstablishmentHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishment.delivery_history")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	items, meta, err := h.Svc.History(ctx, actor(c), page, size)
	if err != nil {
		return fail(l, "delivery_history", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "meta": meta})
}

func (h *EstablishmentHTTP) PublicList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishments.list")

	list, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"establishments": list})
}

func (h *EstablishmentHTTP) PublicGet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "establishments.get")

	id, err := pathID(c, l, "get", "id")
	if err != nil {
		return err
	}
	e, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"establishment": e})
}
