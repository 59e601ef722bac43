package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/service"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	orders, err := h.Svc.List(ctx, actor(c))
	if err != nil {
		return fail(l, "list", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	id, err := pathID(c, l, "get", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.Get(ctx, actor(c), id)
	if err != nil {
		return fail(l, "get", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"order": o})
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	var req transport.CreateOrderRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	o, err := h.Svc.Create(ctx, actor(c), req)
	if err != nil {
		return fail(l, "create", err)
	}

	l.Info("create_success", "order_id", o.ID, "total", o.TotalAmount)
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{
		Message:     "order created",
		OrderID:     o.ID,
		TotalAmount: o.TotalAmount,
	})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.update_status")

	id, err := pathID(c, l, "update_status", "id")
	if err != nil {
		return err
	}
	var req transport.StatusRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	o, err := h.Svc.UpdateStatus(ctx, actor(c), id, req.Status)
	if err != nil {
		return fail(l, "update_status", err)
	}

	l.Info("update_status_success", "order_id", id, "new_status", o.Status)
	return c.JSON(http.StatusOK, map[string]any{"message": "status updated", "status": o.Status})
}

func (h *OrderHTTP) CustomerUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.customer_update")

	id, err := pathID(c, l, "customer_update", "id")
	if err != nil {
		return err
	}
	var req transport.CustomerOrderUpdate
	if err := bindValid(c, &req); err != nil {
		l.Warn("customer_update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	o, err := h.Svc.CustomerUpdate(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "customer_update", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "order updated", "order": o})
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.cancel")

	id, err := pathID(c, l, "cancel", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.Cancel(ctx, actor(c), id)
	if err != nil {
		return fail(l, "cancel", err)
	}

	l.Info("cancel_success", "order_id", id)
	return c.JSON(http.StatusOK, map[string]any{"message": "order cancelled", "order": o})
}

func (h *OrderHTTP) Offers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.offers")

	offers, err := h.Svc.Offers(ctx, actor(c))
	if err != nil {
		return fail(l, "offers", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"offers": offers})
}

func (h *OrderHTTP) AcceptOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.accept_offer")

	id, err := pathID(c, l, "accept_offer", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.AcceptOffer(ctx, actor(c), id)
	if err != nil {
		return fail(l, "accept_offer", err)
	}

	l.Info("accept_offer_success", "offer_id", id, "order_id", o.ID)
	return c.JSON(http.StatusOK, map[string]any{"message": "offer accepted", "order": o})
}

func (h *OrderHTTP) DeclineOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.decline_offer")

	id, err := pathID(c, l, "decline_offer", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeclineOffer(ctx, actor(c), id); err != nil {
		return fail(l, "decline_offer", err)
	}

	l.Info("decline_offer_success", "offer_id", id)
	return c.JSON(http.StatusOK, map[string]any{"message": "offer declined"})
}
