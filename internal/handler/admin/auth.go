package admin

import (
	"net/http"
	"strings"

	"github.com/miradev/mira/internal/auth"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/middleware"
)

// signupRedirectTarget is the path the confirmation email points back at.
const signupRedirectTarget = "/admin/products"

// ShowLogin renders the login form. Signed-in accounts go straight to the
// panel (or the denied page, via RequireAuthorized on the target).
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}
	h.render(w, r, "admin/login", nil)
}

// SubmitLogin verifies credentials and opens an account session. A failed
// attempt re-renders the form with the email kept and a single message
// that never says whether the email exists.
func (h *Handler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	session, err := h.provider.SignIn(r.Context(), email, password)
	if err != nil {
		w.WriteHeader(statusForAuthError(err))
		h.render(w, r, "admin/login", map[string]any{
			"Error":     domain.ErrorMessage(err),
			"FormEmail": email,
		})
		return
	}

	h.setSessionCookie(w, session)
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// ShowSignup renders the account registration form.
func (h *Handler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}
	h.render(w, r, "admin/signup", nil)
}

// SubmitSignup registers a new account and signs it in. The new account
// has no role yet, so the gate resolves it as unauthorized until one is
// granted.
func (h *Handler) SubmitSignup(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	session, err := h.provider.SignUp(r.Context(), email, password, signupRedirectTarget)
	if err != nil {
		w.WriteHeader(statusForAuthError(err))
		h.render(w, r, "admin/signup", map[string]any{
			"Error":     domain.ErrorMessage(err),
			"FormEmail": email,
		})
		return
	}

	h.setSessionCookie(w, session)
	h.flash(w, r, "تم إنشاء الحساب، تحقق من بريدك الإلكتروني")
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// Logout closes the account session and drops its wizard. The access gate
// stays unlocked, so the browser lands back on the login form rather than
// the password gate.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.provider.SignOut(r.Context(), cookie.Value); err != nil {
			middleware.GetLogger(r.Context()).Error("failed to sign out", "error", err)
		}
		h.wizards.Drop(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func statusForAuthError(err error) int {
	switch domain.ErrorCode(err) {
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EINVALID:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
