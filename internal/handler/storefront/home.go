package storefront

import (
	"net/http"

	"github.com/miradev/mira/internal/catalog"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
)

// Home handles GET /. It renders the in-stock catalog filtered by the
// category tab and search box.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.feed.Storefront(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = domain.CategoryAll
	}
	search := r.URL.Query().Get("q")

	filtered := catalog.Filter(products, category, search)

	data := h.baseTemplateData(r)
	data["Products"] = filtered
	data["Categories"] = domain.Categories
	data["SelectedCategory"] = category
	data["Search"] = search

	h.renderer.RenderHTTP(w, "storefront/home", data)
}

// baseTemplateData returns common data for all storefront templates,
// including the header cart badge.
func (h *Handler) baseTemplateData(r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"CartCount": 0,
	}

	if token := GetCartTokenFromCookie(r); token != "" {
		if c, ok := h.carts.Lookup(token); ok {
			data["CartCount"] = c.Count()
		}
	}

	return data
}
