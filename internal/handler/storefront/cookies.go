package storefront

import (
	"net/http"

	"github.com/miradev/mira/internal/cart"
	"github.com/miradev/mira/internal/middleware"
)

const cartCookieMaxAge = 30 * 24 * 60 * 60

// GetCartTokenFromCookie retrieves the cart token from the cart cookie.
// Returns empty string if the cookie is not present.
func GetCartTokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(middleware.CartCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ensureCartToken returns the request's cart token, minting and setting a
// new one when the browser doesn't have one yet.
func (h *Handler) ensureCartToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if token := GetCartTokenFromCookie(r); token != "" {
		return token, nil
	}

	token, err := cart.GenerateToken()
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CartCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cartCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}
