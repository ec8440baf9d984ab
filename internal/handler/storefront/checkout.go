package storefront

import (
	"errors"
	"net/http"

	"github.com/miradev/mira/internal/checkout"
	"github.com/miradev/mira/internal/handler"
)

// Checkout handles POST /checkout. It hands the cart off as a prefilled
// WhatsApp message and redirects the shopper to the wa.me link. The cart
// is deliberately left intact so the order can be resent.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	token := GetCartTokenFromCookie(r)
	if token == "" {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	c, ok := h.carts.Lookup(token)
	if !ok {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	link, err := checkout.Compose(c.Items(), h.whatsappNumber(r))
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}
		handler.RespondError(w, r, err)
		return
	}

	http.Redirect(w, r, link, http.StatusSeeOther)
}
