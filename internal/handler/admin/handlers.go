// Package admin serves the password-gated management panel: the access
// gate, account login and signup, the product list with its add/edit
// wizard, and store settings.
package admin

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/auth"
	"github.com/miradev/mira/internal/catalog"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
	"github.com/miradev/mira/internal/middleware"
	"github.com/miradev/mira/internal/storage"
)

// Handler handles all admin panel routes.
type Handler struct {
	provider auth.Provider
	wizards  *adminflow.Wizards
	products domain.ProductStore
	feed     *catalog.Feed
	settings domain.SettingsStore
	storage  storage.Storage
	sessions sessions.Store
	renderer *handler.Renderer

	// accessPassword is the front-door password checked before any
	// account authentication.
	accessPassword string

	// fallbackNumber pre-fills the settings form until a number is saved.
	fallbackNumber string
	secure         bool
}

// NewHandler creates the admin handler set.
func NewHandler(provider auth.Provider, wizards *adminflow.Wizards,
	products domain.ProductStore, feed *catalog.Feed, settings domain.SettingsStore,
	store storage.Storage, sessionStore sessions.Store, renderer *handler.Renderer,
	accessPassword, fallbackNumber string, secure bool) *Handler {
	return &Handler{
		provider:       provider,
		wizards:        wizards,
		products:       products,
		feed:           feed,
		settings:       settings,
		storage:        store,
		sessions:       sessionStore,
		renderer:       renderer,
		accessPassword: accessPassword,
		fallbackNumber: fallbackNumber,
		secure:         secure,
	}
}

// Denied tells a signed-in account without the admin role why it cannot
// proceed. The only ways forward are signing out or leaving.
func (h *Handler) Denied(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/denied", nil)
}

// render executes an admin page with the shared layout data (CSRF field,
// flash messages, signed-in email) merged in.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["CSRFField"] = csrf.TemplateField(r)

	if session := middleware.GetSession(r.Context()); session != nil {
		data["Email"] = session.Email
	}

	adminSession, _ := h.sessions.Get(r, middleware.AdminSessionName)
	if flashes := adminSession.Flashes(); len(flashes) > 0 {
		data["Flash"] = flashes
		if err := adminSession.Save(r, w); err != nil {
			middleware.GetLogger(r.Context()).Error("failed to save admin session", "error", err)
		}
	}

	h.renderer.RenderHTTP(w, page, data)
}

// flash queues a one-shot message for the next rendered admin page.
func (h *Handler) flash(w http.ResponseWriter, r *http.Request, message string) {
	adminSession, _ := h.sessions.Get(r, middleware.AdminSessionName)
	adminSession.AddFlash(message)
	if err := adminSession.Save(r, w); err != nil {
		middleware.GetLogger(r.Context()).Error("failed to save admin session", "error", err)
	}
}

// wizard returns the product wizard bound to the request's account
// session. Routes using it sit behind RequireAuthorized, so a session is
// always present.
func (h *Handler) wizard(r *http.Request) *adminflow.Wizard {
	session := middleware.GetSession(r.Context())
	if session == nil {
		return adminflow.NewWizard()
	}
	return h.wizards.Get(session.Token)
}

// stepRedirect sends the admin to wherever their wizard currently stands,
// used when a request arrives for the wrong step.
func (h *Handler) stepRedirect(w http.ResponseWriter, r *http.Request, wiz *adminflow.Wizard) {
	switch wiz.State() {
	case adminflow.WizardCreateUpload, adminflow.WizardCreateUploading:
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
	case adminflow.WizardCreateDetails:
		http.Redirect(w, r, "/admin/products/new/details", http.StatusSeeOther)
	case adminflow.WizardEdit:
		http.Redirect(w, r, "/admin/products/"+wiz.ProductID()+"/edit", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
	}
}
