package surface

import "sync"

// ViewMode is one of the two mutually exclusive panel presentations.
type ViewMode uint8

const (
	// ViewLogin presents the login panel.
	ViewLogin ViewMode = iota
	// ViewRegister presents the registration panel.
	ViewRegister
)

// String returns "login" or "register".
func (v ViewMode) String() string {
	if v == ViewRegister {
		return "register"
	}
	return "login"
}

// Renderer is implemented by the host presentation layer. It draws flashes,
// dialogs, and the active panel; it owns the static page, the controller only
// mutates through this interface.
type Renderer interface {
	// ShowFlash sets the single message slot of a form region. An empty
	// message clears the visible text but keeps the slot.
	ShowFlash(region Region, flash Flash)
	// ShowDialogFlash sets the message slot inside a dialog body.
	ShowDialogFlash(dialogID string, flash Flash)
	// PresentDialog draws the dialog panel.
	PresentDialog(view DialogView)
	// DismissDialog removes the dialog panel and its gesture hooks.
	DismissDialog(dialogID string)
	// FocusFirst moves input focus to the dialog's first control.
	FocusFirst(dialogID string)
	// ActivateView switches the page to the given panel.
	ActivateView(mode ViewMode)
}

// ViewToggle switches between the login and register panels. It is not a
// state machine: the two modes are mutually exclusive visual modes and
// activation is idempotent.
type ViewToggle struct {
	mu   sync.Mutex
	mode ViewMode
	r    Renderer
}

// NewViewToggle returns a toggle starting in initial mode. The initial mode
// is not pushed to the renderer; the static page already presents it.
func NewViewToggle(r Renderer, initial ViewMode) *ViewToggle {
	return &ViewToggle{r: r, mode: initial}
}

// Activate switches to mode and notifies the renderer.
func (t *ViewToggle) Activate(mode ViewMode) {
	if t == nil {
		return
	}
	t.mu.Lock()
	same := t.mode == mode
	t.mode = mode
	t.mu.Unlock()
	if same {
		return
	}
	if t.r != nil {
		t.r.ActivateView(mode)
	}
}

// Mode returns the currently active mode.
func (t *ViewToggle) Mode() ViewMode {
	if t == nil {
		return ViewLogin
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}
