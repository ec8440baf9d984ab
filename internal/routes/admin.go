package routes

import (
	"net/http"

	"github.com/miradev/mira/internal/middleware"
	"github.com/miradev/mira/internal/router"
)

// RegisterAdminRoutes registers the admin panel routes in three rings:
// the access gate itself, pages reachable once the gate password has been
// accepted, and the management pages reserved for authorized admins.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	gated := r.Group(deps.CSRF, deps.Gate)

	gated.Get("/admin", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/admin/products", http.StatusSeeOther)
	})

	// The gate password form is the only admin page a locked browser sees.
	gated.Get("/admin/access", deps.Handler.ShowAccess)
	gated.Post("/admin/access", deps.Handler.SubmitAccess)

	// Account authentication, reachable once the gate is unlocked.
	unlocked := gated.Group(middleware.RequireUnlocked)
	unlocked.Get("/admin/login", deps.Handler.ShowLogin)
	unlocked.Post("/admin/login", deps.Handler.SubmitLogin)
	unlocked.Get("/admin/signup", deps.Handler.ShowSignup)
	unlocked.Post("/admin/signup", deps.Handler.SubmitSignup)
	unlocked.Get("/admin/denied", deps.Handler.Denied)
	unlocked.Post("/admin/logout", deps.Handler.Logout)

	// Management pages require the full gate: unlocked, signed in and
	// holding the admin role.
	authorized := gated.Group(middleware.RequireAuthorized)
	authorized.Get("/admin/products", deps.Handler.ListProducts)

	authorized.Post("/admin/products/new", deps.Handler.StartCreate)
	authorized.Get("/admin/products/new", deps.Handler.ShowCreateUpload)
	authorized.Post("/admin/products/new/upload", deps.Handler.Upload)
	authorized.Get("/admin/products/new/details", deps.Handler.ShowCreateDetails)
	authorized.Post("/admin/products/new/details", deps.Handler.SubmitCreate)

	authorized.Get("/admin/products/{id}/edit", deps.Handler.ShowEdit)
	authorized.Post("/admin/products/{id}/edit", deps.Handler.SubmitEdit)
	authorized.Post("/admin/products/{id}/delete", deps.Handler.DeleteProduct)
	authorized.Post("/admin/products/cancel", deps.Handler.Cancel)

	authorized.Get("/admin/settings", deps.Handler.ShowSettings)
	authorized.Post("/admin/settings", deps.Handler.SubmitSettings)
}
