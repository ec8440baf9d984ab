package admin

import (
	"crypto/subtle"
	"net/http"

	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/middleware"
)

// accessDeniedMessage is shown for a wrong gate password.
const accessDeniedMessage = "كلمة المرور غير صحيحة"

// ShowAccess renders the front-door password form. An already unlocked
// browser skips straight to the panel.
func (h *Handler) ShowAccess(w http.ResponseWriter, r *http.Request) {
	if middleware.GetGateState(r.Context()) != adminflow.GateLocked {
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}
	h.render(w, r, "admin/access", nil)
}

// SubmitAccess checks the gate password. A match marks the browser
// session unlocked; account authentication still follows.
func (h *Handler) SubmitAccess(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.accessPassword)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, r, "admin/access", map[string]any{
			"Error": accessDeniedMessage,
		})
		return
	}

	adminSession, _ := h.sessions.Get(r, middleware.AdminSessionName)
	adminSession.Values[middleware.GateUnlockedKey] = true
	if err := adminSession.Save(r, w); err != nil {
		middleware.GetLogger(r.Context()).Error("failed to save admin session", "error", err)
		http.Error(w, "Failed to unlock admin panel", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}
