package adminflow

import (
	"fmt"
	"sync"

	"github.com/miradev/mira/internal/domain"
)

// WizardState is the product add/edit dialog position.
type WizardState int

const (
	// WizardIdle means no dialog is open and no draft exists.
	WizardIdle WizardState = iota

	// WizardCreateUpload is step 1 of create mode: waiting for an image.
	WizardCreateUpload

	// WizardCreateUploading means an upload is in flight. Starting a
	// second upload is rejected until the first settles.
	WizardCreateUploading

	// WizardCreateDetails is step 2 of create mode: the text form, only
	// reachable once an upload has produced an image URL.
	WizardCreateDetails

	// WizardEdit is the single-step edit form for an existing product.
	WizardEdit
)

func (s WizardState) String() string {
	switch s {
	case WizardIdle:
		return "idle"
	case WizardCreateUpload:
		return "create:upload"
	case WizardCreateUploading:
		return "create:uploading"
	case WizardCreateDetails:
		return "create:details"
	case WizardEdit:
		return "edit"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Wizard is the add/edit state machine for one admin session. Create mode
// forces the image upload before the detail form; edit mode loads the
// existing product into the draft in a single step. Cancel discards the
// draft from any state with no side effects.
//
// One wizard is shared by every concurrent request of its session (a
// double-submitted form hits the same pointer twice), so all state lives
// behind a mutex and each transition is atomic.
type Wizard struct {
	mu        sync.Mutex
	state     WizardState
	draft     domain.ProductDraft
	productID string
}

// NewWizard starts a wizard in the Idle state.
func NewWizard() *Wizard {
	return &Wizard{state: WizardIdle}
}

// State returns the current dialog position.
func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// StartCreate opens the create dialog at the upload step.
func (w *Wizard) StartCreate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != WizardIdle {
		return &TransitionError{From: w.state.String(), Event: "start create"}
	}
	w.state = WizardCreateUpload
	w.draft = domain.ProductDraft{InStock: true}
	w.productID = ""
	return nil
}

// BeginUpload marks an upload as in flight. A second upload cannot start
// while one is pending.
func (w *Wizard) BeginUpload() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != WizardCreateUpload {
		return &TransitionError{From: w.state.String(), Event: "begin upload"}
	}
	w.state = WizardCreateUploading
	return nil
}

// FinishUpload records the public image URL and advances to the detail
// form. The URL becomes part of the draft and is not editable in create
// mode.
func (w *Wizard) FinishUpload(imageURL string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != WizardCreateUploading {
		return &TransitionError{From: w.state.String(), Event: "finish upload"}
	}
	w.draft.ImageURL = imageURL
	w.state = WizardCreateDetails
	return nil
}

// FailUpload returns to the upload step so the admin can retry.
func (w *Wizard) FailUpload() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != WizardCreateUploading {
		return &TransitionError{From: w.state.String(), Event: "fail upload"}
	}
	w.state = WizardCreateUpload
	return nil
}

// StartEdit opens the edit dialog with the product's current data loaded
// into the draft, image URL included and editable.
func (w *Wizard) StartEdit(p domain.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != WizardIdle {
		return &TransitionError{From: w.state.String(), Event: "start edit"}
	}
	w.state = WizardEdit
	w.productID = p.ID.String()
	w.draft = domain.ProductDraft{
		Name:        p.Name,
		Description: p.Description.String,
		Price:       p.Price.String(),
		ImageURL:    p.ImageURL.String,
		Category:    p.Category.String,
		InStock:     p.InStock,
	}
	return nil
}

// SetDraft replaces the draft's text fields from a submitted form. Only
// valid on the detail or edit form. In create mode the uploaded image URL
// is kept regardless of what the form carries.
func (w *Wizard) SetDraft(d domain.ProductDraft) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case WizardCreateDetails:
		d.ImageURL = w.draft.ImageURL
		w.draft = d
		return nil
	case WizardEdit:
		w.draft = d
		return nil
	default:
		return &TransitionError{From: w.state.String(), Event: "set draft"}
	}
}

// Draft returns the current draft. A rejected create or update keeps the
// wizard on its form with the draft intact so the admin can correct and
// resubmit.
func (w *Wizard) Draft() domain.ProductDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// ProductID returns the identifier being edited, empty in create mode.
func (w *Wizard) ProductID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.productID
}

// Complete closes the dialog after a successful create or update.
func (w *Wizard) Complete() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != WizardCreateDetails && w.state != WizardEdit {
		return &TransitionError{From: w.state.String(), Event: "complete"}
	}
	w.reset()
	return nil
}

// Cancel discards the draft from any state and returns to Idle.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
}

func (w *Wizard) reset() {
	w.state = WizardIdle
	w.draft = domain.ProductDraft{}
	w.productID = ""
}

// Wizards holds one wizard per admin session token.
type Wizards struct {
	mu      sync.Mutex
	byToken map[string]*Wizard
}

// NewWizards creates an empty wizard registry.
func NewWizards() *Wizards {
	return &Wizards{byToken: make(map[string]*Wizard)}
}

// Get returns the wizard for the session token, creating an idle one on
// first use.
func (s *Wizards) Get(token string) *Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byToken[token]
	if !ok {
		w = NewWizard()
		s.byToken[token] = w
	}
	return w
}

// Drop removes the session's wizard, used on sign-out.
func (s *Wizards) Drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
}
