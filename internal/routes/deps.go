// Package routes wires handlers onto the router, grouped by surface.
package routes

import (
	"github.com/miradev/mira/internal/handler/admin"
	"github.com/miradev/mira/internal/handler/storefront"
	"github.com/miradev/mira/internal/router"
)

// StorefrontDeps contains dependencies for the public storefront routes.
type StorefrontDeps struct {
	Handler *storefront.Handler
}

// AdminDeps contains dependencies for the admin panel routes.
type AdminDeps struct {
	Handler *admin.Handler

	// Gate resolves the per-request admin gate state. Built in main from
	// the session store and role store.
	Gate router.Middleware

	// CSRF protects every admin form post.
	CSRF router.Middleware
}
