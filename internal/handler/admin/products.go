package admin

import (
	"net/http"
	"strings"

	"github.com/miradev/mira/internal/catalog"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
)

// ListProducts renders the management table: every product regardless of
// stock, newest first, optionally narrowed by a name search.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.feed.Admin(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	search := r.URL.Query().Get("q")
	products = catalog.Filter(products, domain.CategoryAll, search)

	h.render(w, r, "admin/products", map[string]any{
		"Products": products,
		"Search":   search,
	})
}

// DeleteProduct removes a product permanently. The form carries an
// explicit confirmation value; without it nothing is deleted.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}

	id := r.PathValue("id")
	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			// Already gone, treat as done.
			http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
			return
		}
		handler.RespondError(w, r, err)
		return
	}

	h.feed.Invalidate()
	h.flash(w, r, "تم حذف المنتج")
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// draftFromForm collects the product form fields as submitted, untrimmed
// and unvalidated. Validation happens against the wizard's draft so a
// rejected submit keeps what the admin typed.
func draftFromForm(r *http.Request) domain.ProductDraft {
	return domain.ProductDraft{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       strings.TrimSpace(r.FormValue("price")),
		ImageURL:    r.FormValue("image_url"),
		Category:    r.FormValue("category"),
		InStock:     r.FormValue("in_stock") == "on",
	}
}
