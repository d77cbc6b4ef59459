package routes

import (
	"github.com/Madhav-Gupta-28/market-mate-backend-go/handlers"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/metrics"
	customMiddleware "github.com/Madhav-Gupta-28/market-mate-backend-go/middleware"
	"github.com/labstack/echo/v4"
)

type Options struct {
	Prefix        string
	Authenticator customMiddleware.Authenticator
	// AuthLimiter throttles login and register; nil disables it.
	AuthLimiter *customMiddleware.RateLimiter
}

func SetupRoutes(e *echo.Echo, h *handlers.Handler, opts Options) {
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	auth := customMiddleware.AuthMiddleware(opts.Authenticator)
	authed := func(fn customMiddleware.AuthedHandlerFunc) echo.HandlerFunc {
		return customMiddleware.WithPrincipal(fn)
	}
	var limited []echo.MiddlewareFunc
	if opts.AuthLimiter != nil {
		limited = append(limited, opts.AuthLimiter.Middleware())
	}

	api := e.Group(opts.Prefix)

	// User routes
	user := api.Group("/user")
	user.POST("/register", h.Register, limited...)
	user.POST("/login", h.Login, limited...)
	user.GET("/carousel", h.GetCarousel)

	member := user.Group("", auth)
	member.GET("/logout", authed(h.Logout))
	member.GET("/myaccount", authed(h.MyAccount))
	member.GET("/account", authed(h.Account))
	member.PUT("/account/update", authed(h.UpdateAccount))

	member.POST("/seller/company/register", authed(h.RegisterCompany))
	member.GET("/company/details", authed(h.CompanyDetails))
	member.GET("/seller/products", authed(h.SellerProducts))

	member.POST("/cart/:id/add", authed(h.AddToCart))
	member.GET("/cart/products", authed(h.GetCart))
	member.DELETE("/cart/products/:id/remove", authed(h.RemoveFromCart))

	member.POST("/wishlist/:id", authed(h.ToggleWishlist))
	member.GET("/wishlist/products", authed(h.GetWishlist))
	member.DELETE("/wishlist/products/:id/remove", authed(h.RemoveFromWishlist))

	member.GET("/get/addresses", authed(h.GetAddresses))
	member.POST("/address", authed(h.AddAddress))
	member.DELETE("/address/:id/remove", authed(h.RemoveAddress))
	member.POST("/address/:id/setdefault", authed(h.SetDefaultAddress))

	member.POST("/order/create", authed(h.CreateOrder))
	member.GET("/orders", authed(h.GetOrders))
	member.DELETE("/orders/:id/cancel", authed(h.CancelOrder))
	member.PUT("/order/:id/delivered", authed(h.MarkDelivered))

	member.GET("/admin/users", authed(h.AdminUsers))
	member.GET("/admin/products", authed(h.AdminProducts))
	member.GET("/admin/orders/:id", authed(h.AdminOrders))
	member.PUT("/admin/orders/:id/status", authed(h.AdvanceOrder))

	member.POST("/carousel/create", authed(h.CreateCarousel))
	member.GET("/new/carousel", authed(h.AdminCarousel))
	member.PUT("/carousel/update", authed(h.UpdateCarousel))
	member.DELETE("/carousel/delete/:id", authed(h.DeleteCarousel))

	// Product routes
	product := api.Group("/product")
	product.GET("/find/:id", h.GetProduct)
	product.GET("/filter", h.FilterProducts)
	product.GET("/search", h.SearchProducts)
	product.POST("/register", authed(h.CreateProduct), auth)
	product.POST("/update/:id", authed(h.UpdateProduct), auth)
	product.DELETE("/delete/:id", authed(h.DeleteProduct), auth)
	product.POST("/:id/review", authed(h.SubmitReview), auth)
}
