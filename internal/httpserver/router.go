package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/painelquick/backend/internal/middleware/auth"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/pkg/metrics"
	loggingmw "github.com/painelquick/backend/pkg/middleware/logging"
	"github.com/painelquick/backend/pkg/middleware/ratelimit"
)

const Version = "1.0.0"

type Options struct {
	Logger      *slog.Logger
	Development bool
	CORSOrigins []string
	BodyLimit   string
}

// New returns an echo instance with the validator, the error handler and
// the global middleware chain installed.
func New(o Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(o.Development)

	origins := o.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	limit := o.BodyLimit
	if limit == "" {
		limit = "10M"
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(o.Logger))
	e.Use(metrics.Middleware)
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "same-origin",
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: len(origins) != 1 || origins[0] != "*",
	}))
	e.Use(echomw.BodyLimit(limit))
	return e
}

type Deps struct {
	Auth          *AuthHTTP
	Users         *UserHTTP
	Catalog       *CatalogHTTP
	Orders        *OrderHTTP
	Establishment *EstablishmentHTTP
	WS            echo.HandlerFunc

	Guard     *auth.Guard
	Limiter   *ratelimit.Limiter
	UploadDir string
	Ready     func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", metrics.Handler())
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}
	if d.WS != nil {
		e.GET("/ws", d.WS)
	}

	authed := d.Guard.RequireAuth
	customer := auth.RequireRoles(models.RoleCustomer)
	establishment := auth.RequireRoles(models.RoleEstablishment)
	courier := auth.RequireRoles(models.RoleDelivery)

	api := e.Group("/api")
	if d.Limiter != nil {
		api.Use(d.Limiter.Middleware)
	}
	api.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"message":   "painelquick api",
			"version":   Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	a := api.Group("/auth")
	a.POST("/login", d.Auth.Login)
	a.POST("/register", d.Auth.Register)
	a.GET("/validate", d.Auth.Validate, authed)
	a.POST("/logout", d.Auth.Logout, authed)
	a.POST("/refresh", d.Auth.Refresh, authed)
	a.GET("/profile", d.Auth.Profile, authed)
	a.PUT("/profile", d.Auth.UpdateProfile, authed)

	u := api.Group("/users", authed)
	u.GET("/profile", d.Auth.Profile)
	u.PUT("/profile", d.Auth.UpdateProfile)
	u.GET("/delivery", d.Users.Couriers, establishment)
	u.GET("/establishments", d.Users.Establishments, customer)
	u.GET("/customers", d.Users.Customers, establishment)
	u.GET("/:id", d.Users.Get)
	u.PUT("/:id", d.Users.Update)

	ad := api.Group("/user-addresses")
	ad.GET("/by-phone/:phone", d.Users.AddressesByPhone)
	ad.GET("/user/:userId", d.Users.ListAddresses, authed)
	ad.POST("", d.Users.CreateAddress, authed)
	ad.PUT("/:addressId", d.Users.UpdateAddress, authed)
	ad.DELETE("/:addressId", d.Users.DeleteAddress, authed)
	ad.PATCH("/:addressId/set-default", d.Users.SetDefaultAddress, authed)

	cat := api.Group("/categories")
	cat.GET("", d.Catalog.ListCategories)
	cat.GET("/:id", d.Catalog.GetCategory)
	cat.GET("/:id/products", d.Catalog.CategoryProducts)
	cat.POST("", d.Catalog.CreateCategory, authed, establishment)
	cat.PUT("/:id", d.Catalog.UpdateCategory, authed, establishment)
	cat.DELETE("/:id", d.Catalog.DeleteCategory, authed, establishment)

	p := api.Group("/products")
	p.GET("", d.Catalog.Menu)
	p.GET("/search", d.Catalog.Search)
	p.GET("/establishment/:id", d.Catalog.EstablishmentProducts)
	p.GET("/:id", d.Catalog.GetProduct)
	p.POST("", d.Catalog.CreateProduct, authed, establishment)
	p.PUT("/:id", d.Catalog.UpdateProduct, authed, establishment)
	p.PUT("/:id/groups", d.Catalog.SetProductGroups, authed, establishment)
	p.POST("/:id/image", d.Catalog.UploadProductImage, authed, establishment)
	p.DELETE("/:id", d.Catalog.DeleteProduct, authed, establishment)

	og := api.Group("/option-groups")
	og.GET("", d.Catalog.ListOptionGroups)
	og.GET("/:id", d.Catalog.GetOptionGroup)
	og.POST("", d.Catalog.CreateOptionGroup, authed, establishment)
	og.PUT("/:id", d.Catalog.UpdateOptionGroup, authed, establishment)
	og.DELETE("/:id", d.Catalog.DeleteOptionGroup, authed, establishment)

	op := api.Group("/options")
	op.GET("", d.Catalog.ListOptions)
	op.GET("/:id", d.Catalog.GetOption)
	op.POST("", d.Catalog.CreateOption, authed, establishment)
	op.PUT("/:id", d.Catalog.UpdateOption, authed, establishment)
	op.DELETE("/:id", d.Catalog.DeleteOption, authed, establishment)

	ac := api.Group("/acrescimos")
	ac.GET("", d.Catalog.ListAcrescimos)
	ac.POST("", d.Catalog.CreateAcrescimo, authed, establishment)
	ac.PUT("/:id", d.Catalog.UpdateAcrescimo, authed, establishment)
	ac.DELETE("/:id", d.Catalog.DeleteAcrescimo, authed, establishment)

	o := api.Group("/orders", authed)
	o.GET("", d.Orders.List)
	o.POST("", d.Orders.Create, auth.RequireRoles(models.RoleCustomer, models.RoleEstablishment))
	o.GET("/offers", d.Orders.Offers, courier)
	o.POST("/offers/:id/accept", d.Orders.AcceptOffer, courier)
	o.POST("/offers/:id/decline", d.Orders.DeclineOffer, courier)
	o.GET("/:id", d.Orders.Get)
	o.PUT("/:id/status", d.Orders.UpdateStatus, auth.RequireRoles(models.RoleEstablishment, models.RoleDelivery))
	o.PUT("/:id", d.Orders.CustomerUpdate, customer)
	o.DELETE("/:id", d.Orders.Cancel, customer)

	es := api.Group("/establishment", authed, establishment)
	es.GET("/profile", d.Establishment.Profile)
	es.PUT("/profile", d.Establishment.UpdateProfile)
	es.POST("/logo", d.Establishment.UploadLogo)
	es.POST("/banner", d.Establishment.UploadBanner)
	es.GET("/orders", d.Establishment.ListOrders)
	es.GET("/orders/ready-for-delivery", d.Establishment.ReadyForDelivery)
	es.GET("/orders/:id", d.Establishment.GetOrder)
	es.PUT("/orders/:id/status", d.Establishment.UpdateOrderStatus)
	es.PUT("/orders/:id", d.Establishment.FullUpdateOrder)
	es.POST("/orders/:id/assign-delivery-auto", d.Establishment.AssignAuto)
	es.GET("/dashboard", d.Establishment.DashboardData)
	es.GET("/cuisine-types", d.Establishment.CuisineTypes)
	es.GET("/delivery-people", d.Establishment.Couriers)
	es.POST("/delivery-people", d.Establishment.LinkCourier)
	es.DELETE("/delivery-people/:id", d.Establishment.UnlinkCourier)
	es.GET("/delivery-history", d.Establishment.History)

	pub := api.Group("/establishments")
	pub.GET("", d.Establishment.PublicList)
	pub.GET("/profile", d.Establishment.Profile, authed, establishment)
	pub.PUT("/profile", d.Establishment.UpdateProfile, authed, establishment)
	pub.GET("/:id", d.Establishment.PublicGet)
}
