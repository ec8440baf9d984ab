package admin

import (
	"net/http"
	"strings"

	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
	"github.com/miradev/mira/internal/middleware"
)

// ShowSettings renders the store settings form, pre-filled with the saved
// WhatsApp number or the configured fallback while none is saved.
func (h *Handler) ShowSettings(w http.ResponseWriter, r *http.Request) {
	number, err := h.settings.GetSetting(r.Context(), domain.SettingWhatsAppNumber)
	if err != nil {
		if !domain.IsCode(err, domain.ENOTFOUND) {
			middleware.GetLogger(r.Context()).Error("failed to read whatsapp number setting",
				"error", err)
		}
		number = h.fallbackNumber
	}

	h.render(w, r, "admin/settings", map[string]any{
		"WhatsAppNumber": number,
	})
}

// SubmitSettings saves the WhatsApp number checkout orders are sent to.
func (h *Handler) SubmitSettings(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(r.FormValue("whatsapp_number"))
	if number == "" {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, r, "admin/settings", map[string]any{
			"Error":          "رقم الواتساب مطلوب",
			"WhatsAppNumber": number,
		})
		return
	}

	if err := h.settings.SetSetting(r.Context(), domain.SettingWhatsAppNumber, number); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	h.flash(w, r, "تم حفظ الإعدادات")
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}
