// Package storefront serves the public catalog, the cart and the WhatsApp
// checkout.
package storefront

import (
	"net/http"

	"github.com/miradev/mira/internal/cart"
	"github.com/miradev/mira/internal/catalog"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
	"github.com/miradev/mira/internal/middleware"
)

// Handler handles all storefront routes.
type Handler struct {
	feed     *catalog.Feed
	products domain.ProductStore
	settings domain.SettingsStore
	carts    *cart.Manager
	renderer *handler.Renderer

	// fallbackNumber receives orders when no number is saved in settings.
	fallbackNumber string
	secure         bool
}

// NewHandler creates the storefront handler set.
func NewHandler(feed *catalog.Feed, products domain.ProductStore, settings domain.SettingsStore,
	carts *cart.Manager, renderer *handler.Renderer, fallbackNumber string, secure bool) *Handler {
	return &Handler{
		feed:           feed,
		products:       products,
		settings:       settings,
		carts:          carts,
		renderer:       renderer,
		fallbackNumber: fallbackNumber,
		secure:         secure,
	}
}

// whatsappNumber resolves the checkout destination: the saved setting when
// present, the configured fallback otherwise. A settings read failure also
// falls back so checkout keeps working.
func (h *Handler) whatsappNumber(r *http.Request) string {
	number, err := h.settings.GetSetting(r.Context(), domain.SettingWhatsAppNumber)
	if err != nil {
		if !domain.IsCode(err, domain.ENOTFOUND) {
			middleware.GetLogger(r.Context()).Error("failed to read whatsapp number setting",
				"error", err)
		}
		return h.fallbackNumber
	}
	if number == "" {
		return h.fallbackNumber
	}
	return number
}
