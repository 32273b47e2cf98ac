package routes

import (
	"verbena/cart"
	"verbena/catalog"
	"verbena/middleware"
	"verbena/orders"
	"verbena/ratelim"
	"verbena/search"

	"github.com/julienschmidt/httprouter"
)

// Deps carries the constructed services the routes close over.
type Deps struct {
	Catalog *catalog.Catalog
	Engine  *search.Engine
	Carts   *cart.Store
	Ledger  *orders.Ledger
}

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, deps Deps) {
	AddSearchRoutes(router, rateLimiter, deps)
	AddCartRoutes(router, rateLimiter, deps)
	AddOrderRoutes(router, rateLimiter, deps)
}

func AddSearchRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, deps Deps) {
	h := search.NewHandlers(deps.Engine, deps.Catalog)

	router.GET("/api/search/products", rateLimiter.Limit(h.SearchProducts))
	router.GET("/api/search/autocomplete", rateLimiter.Limit(h.Autocomplete))
	router.POST("/api/catalog/reload",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
		)(h.ReloadCatalog),
	)
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, deps Deps) {
	h := cart.NewHandlers(deps.Carts)

	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.POST("/api/cart", authed(h.AddToCart))
	router.GET("/api/cart", authed(h.GetCart))
	router.DELETE("/api/cart/item", authed(h.RemoveFromCart))
	router.DELETE("/api/cart", authed(h.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, deps Deps) {
	h := orders.NewHandlers(deps.Ledger)

	router.POST("/api/orders/checkout",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			orders.Idempotent,
		)(h.Checkout),
	)
	router.GET("/api/orders/:orderId",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
		)(h.GetOrderStatus),
	)
	router.GET("/api/orders/:orderId/invoice",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
		)(h.PrintInvoice),
	)
}
