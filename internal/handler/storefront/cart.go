package storefront

import (
	"net/http"

	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
)

// ViewCart handles GET /cart.
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	data := h.baseTemplateData(r)
	data["Items"] = nil
	data["Total"] = nil

	if token := GetCartTokenFromCookie(r); token != "" {
		if c, ok := h.carts.Lookup(token); ok {
			data["Items"] = c.Items()
			data["Total"] = c.Total()
			data["CartCount"] = c.Count()
		}
	}

	h.renderer.RenderHTTP(w, "storefront/cart", data)
}

// AddToCart handles POST /cart/add. Adding the same product again bumps
// its quantity; the line's price is frozen at this moment.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	productID := r.FormValue("product_id")
	if productID == "" {
		http.Error(w, "Missing product", http.StatusBadRequest)
		return
	}

	product, err := h.products.GetProduct(r.Context(), productID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	if !product.InStock {
		handler.RespondError(w, r, domain.Invalid("cart.add", "Product is out of stock"))
		return
	}

	token, err := h.ensureCartToken(w, r)
	if err != nil {
		handler.RespondError(w, r, domain.Internal(err, "cart.add", "failed to create cart"))
		return
	}

	h.carts.Get(token).AddItem(*product)

	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// RemoveFromCart handles POST /cart/remove. The whole line goes, whatever
// its quantity; removing an absent product is a no-op.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if token := GetCartTokenFromCookie(r); token != "" {
		if c, ok := h.carts.Lookup(token); ok {
			c.RemoveItem(r.FormValue("product_id"))
		}
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// redirectTarget picks where a cart mutation returns to, defaulting to the
// catalog. Only local paths are accepted.
func redirectTarget(r *http.Request) string {
	target := r.FormValue("return_to")
	if target == "" || target[0] != '/' || (len(target) > 1 && target[1] == '/') {
		return "/"
	}
	return target
}
