package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/service"
	"github.com/painelquick/backend/internal/storage"
	"github.com/painelquick/backend/internal/transport"
	"github.com/painelquick/backend/internal/util"
	"github.com/painelquick/backend/pkg/logging"
)

type CatalogHTTP struct {
	Svc     *service.CatalogService
	Uploads *storage.Local
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.list")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "list", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": cats})
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.get")

	id, err := pathID(c, l, "get", "id")
	if err != nil {
		return err
	}
	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return fail(l, "get", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"category": cat})
}

func (h *CatalogHTTP) CategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.products")

	id, err := pathID(c, l, "products", "id")
	if err != nil {
		return err
	}
	products, err := h.Svc.CategoryProducts(ctx, id)
	if err != nil {
		return fail(l, "products", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"products": products})
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.create")

	var req transport.CategoryRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "create", err)
	}

	l.Info("create_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "category created", "category": cat})
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.update")

	id, err := pathID(c, l, "update", "id")
	if err != nil {
		return err
	}
	var req transport.CategoryRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return fail(l, "update", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "category updated", "category": cat})
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.delete")

	id, err := pathID(c, l, "delete", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete", err)
	}

	l.Info("delete_success", "category_id", id)
	return c.JSON(http.StatusOK, map[string]any{"message": "category deleted"})
}

// Menu lists an establishment's products with their option groups.
func (h *CatalogHTTP) Menu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.menu")

	estID, err := establishmentQuery(c, l, "menu")
	if err != nil {
		return err
	}
	products, err := h.Svc.Menu(ctx, estID)
	if err != nil {
		return fail(l, "menu", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"products": products})
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.search")

	q := c.QueryParam("q")
	if q == "" {
		return badRequest(l, "search", "q is required", nil)
	}
	estID, _ := util.ParseID(c.QueryParam("establishment_id"))
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, q, estID, offset, limit)
	if err != nil {
		return fail(l, "search", err)
	}

	l.Info("search_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	id, err := pathID(c, l, "get", "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"product": p})
}

func (h *CatalogHTTP) EstablishmentProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.by_establishment")

	id, err := pathID(c, l, "by_establishment", "id")
	if err != nil {
		return err
	}
	products, err := h.Svc.EstablishmentProducts(ctx, id)
	if err != nil {
		return fail(l, "by_establishment", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"products": products})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.create")

	var req transport.ProductRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	p, err := h.Svc.CreateProduct(ctx, actor(c), req)
	if err != nil {
		return fail(l, "create", err)
	}

	l.Info("create_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, map[string]any{"message": "product created", "product": p})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.update")

	id, err := pathID(c, l, "update", "id")
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	p, err := h.Svc.UpdateProduct(ctx, actor(c), id, req)
	if err != nil {
		return fail(l, "update", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "product updated", "product": p})
}

func (h *CatalogHTTP) SetProductGroups(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.set_groups")

	id, err := pathID(c, l, "set_groups", "id")
	if err != nil {
		return err
	}
	var req transport.ProductGroupsRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("set_groups_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	p, err := h.Svc.SetProductGroups(ctx, actor(c), id, req.GroupIDs)
	if err != nil {
		return fail(l, "set_groups", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "product groups updated", "product": p})
}

func (h *CatalogHTTP) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.upload_image")

	id, err := pathID(c, l, "upload_image", "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(l, "upload_image", "image file is required", err)
	}
	url, err := h.Uploads.SaveImage("product", fh)
	if err != nil {
		return fail(l, "upload_image", err)
	}
	p, err := h.Svc.SetProductImage(ctx, actor(c), id, url)
	if err != nil {
		return fail(l, "upload_image", err)
	}

	l.Info("upload_image_success", "product_id", id, "url", url)
	return c.JSON(http.StatusOK, map[string]any{"message": "image uploaded", "image_url": url, "product": p})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.delete")

	id, err := pathID(c, l, "delete", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, actor(c), id); err != nil {
		return fail(l, "delete", err)
	}

	l.Info("delete_success", "product_id", id)
	return c.JSON(http.StatusOK, map[string]any{"message": "product deleted"})
}
