package admin

import (
	"net/http"

	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
	"github.com/miradev/mira/internal/middleware"
	"github.com/miradev/mira/internal/storage"
)

// maxUploadBytes caps a product image upload at 10 MB.
const maxUploadBytes = 10 << 20

const (
	msgImageRequired = "يجب اختيار صورة"
	msgUploadFailed  = "فشل رفع الصورة، حاول مرة أخرى"
)

// StartCreate opens the create wizard at the image upload step. A wizard
// that is already open stays where it is.
func (h *Handler) StartCreate(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(r)
	if err := wiz.StartCreate(); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}
	http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
}

// ShowCreateUpload renders step 1 of the create wizard. Requests that
// arrive on the wrong step are sent to the right one.
func (h *Handler) ShowCreateUpload(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(r)
	switch wiz.State() {
	case adminflow.WizardCreateUpload, adminflow.WizardCreateUploading:
		h.render(w, r, "admin/product_upload", nil)
	default:
		h.stepRedirect(w, r, wiz)
	}
}

// Upload stores the product image and advances the wizard to the detail
// form. A failed upload returns to the upload step with the reason; a
// second upload while one is in flight is refused.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(r)
	if err := wiz.BeginUpload(); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		h.failUpload(w, r, wiz, msgImageRequired)
		return
	}
	defer file.Close()

	key, err := storage.ObjectKey(header.Filename)
	if err != nil {
		middleware.GetLogger(r.Context()).Error("failed to build upload key", "error", err)
		h.failUpload(w, r, wiz, msgUploadFailed)
		return
	}

	url, err := h.storage.Put(r.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		middleware.GetLogger(r.Context()).Error("image upload failed",
			"error", err,
			"key", key,
		)
		h.failUpload(w, r, wiz, msgUploadFailed)
		return
	}

	if err := wiz.FinishUpload(url); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}
	http.Redirect(w, r, "/admin/products/new/details", http.StatusSeeOther)
}

func (h *Handler) failUpload(w http.ResponseWriter, r *http.Request, wiz *adminflow.Wizard, message string) {
	if err := wiz.FailUpload(); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}
	w.WriteHeader(http.StatusBadRequest)
	h.render(w, r, "admin/product_upload", map[string]any{
		"Error": message,
	})
}

// ShowCreateDetails renders step 2 of the create wizard, reachable only
// after an image has been uploaded.
func (h *Handler) ShowCreateDetails(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(r)
	if wiz.State() != adminflow.WizardCreateDetails {
		h.stepRedirect(w, r, wiz)
		return
	}
	h.renderForm(w, r, wiz, "create", "")
}

// SubmitCreate validates the detail form and persists the product. The
// uploaded image URL wins over whatever the form carried. A rejected
// draft keeps the form open with the submitted values.
func (h *Handler) SubmitCreate(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(r)
	if err := wiz.SetDraft(draftFromForm(r)); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}

	params, err := domain.ValidateDraft(wiz.Draft())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.renderForm(w, r, wiz, "create", domain.ErrorMessage(err))
		return
	}

	if _, err := h.products.CreateProduct(r.Context(), *params); err != nil {
		w.WriteHeader(handler.ErrorStatus(err))
		h.renderForm(w, r, wiz, "create", domain.ErrorMessage(err))
		return
	}

	h.feed.Invalidate()
	if err := wiz.Complete(); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}

	h.flash(w, r, "تمت إضافة المنتج")
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// ShowEdit opens the single-step edit form with the product's current
// data, image URL included and editable. A wizard already editing this
// product keeps its draft, so a rejected submit survives the redirect.
func (h *Handler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	wiz := h.wizard(r)

	if wiz.State() == adminflow.WizardEdit && wiz.ProductID() == id {
		h.renderForm(w, r, wiz, "edit", "")
		return
	}
	if wiz.State() != adminflow.WizardIdle {
		h.stepRedirect(w, r, wiz)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	if err := wiz.StartEdit(*product); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}

	h.renderForm(w, r, wiz, "edit", "")
}

// SubmitEdit validates the edit form and updates the product.
func (h *Handler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	wiz := h.wizard(r)

	if wiz.State() != adminflow.WizardEdit || wiz.ProductID() != id {
		h.stepRedirect(w, r, wiz)
		return
	}
	if err := wiz.SetDraft(draftFromForm(r)); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}

	params, err := domain.ValidateDraft(wiz.Draft())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.renderForm(w, r, wiz, "edit", domain.ErrorMessage(err))
		return
	}

	if err := h.products.UpdateProduct(r.Context(), id, *params); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			wiz.Cancel()
			h.flash(w, r, "المنتج لم يعد موجوداً")
			http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
			return
		}
		w.WriteHeader(handler.ErrorStatus(err))
		h.renderForm(w, r, wiz, "edit", domain.ErrorMessage(err))
		return
	}

	h.feed.Invalidate()
	if err := wiz.Complete(); err != nil {
		h.stepRedirect(w, r, wiz)
		return
	}

	h.flash(w, r, "تم حفظ التعديلات")
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// Cancel discards the wizard draft from any step with no side effects.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.wizard(r).Cancel()
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, wiz *adminflow.Wizard, mode, errMsg string) {
	action := "/admin/products/new/details"
	if mode == "edit" {
		action = "/admin/products/" + wiz.ProductID() + "/edit"
	}

	data := map[string]any{
		"Mode":       mode,
		"FormAction": action,
		"Draft":      wiz.Draft(),
		"Categories": domain.Categories,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(w, r, "admin/product_form", data)
}
