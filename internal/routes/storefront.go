package routes

import (
	"github.com/miradev/mira/internal/router"
)

// RegisterStorefrontRoutes registers the public catalog, cart and
// checkout routes. None of them require authentication.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	r.Get("/", deps.Handler.Home)

	r.Get("/cart", deps.Handler.ViewCart)
	r.Post("/cart/add", deps.Handler.AddToCart)
	r.Post("/cart/remove", deps.Handler.RemoveFromCart)

	r.Post("/checkout", deps.Handler.Checkout)
}
