package surface

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const defaultFocusDelay = 10 * time.Millisecond

// DismissReason records how a dialog went away.
type DismissReason uint8

const (
	// ReasonCloseControl is the dialog's own close button.
	ReasonCloseControl DismissReason = iota
	// ReasonEscape is the escape gesture. The underlying hook is armed once
	// per open and self-removes after firing.
	ReasonEscape
	// ReasonCancelControl is an explicit cancel button inside the dialog body.
	ReasonCancelControl
	// ReasonReplaced means a newer dialog took the single modal slot.
	ReasonReplaced
	// ReasonCompleted means the owning flow finished and closed the dialog
	// programmatically.
	ReasonCompleted
	// ReasonProgrammatic is any other controller-initiated close.
	ReasonProgrammatic
)

// String returns a short name for the reason.
func (r DismissReason) String() string {
	switch r {
	case ReasonCloseControl:
		return "close-control"
	case ReasonEscape:
		return "escape"
	case ReasonCancelControl:
		return "cancel"
	case ReasonReplaced:
		return "replaced"
	case ReasonCompleted:
		return "completed"
	default:
		return "programmatic"
	}
}

// FieldKind selects the input treatment of a dialog form field.
type FieldKind uint8

const (
	// FieldText is a plain text input.
	FieldText FieldKind = iota
	// FieldEmail is an email input.
	FieldEmail
	// FieldPassword is a masked input.
	FieldPassword
)

// FieldSpec describes one input inside a dialog body form.
type FieldSpec struct {
	Name        string
	Kind        FieldKind
	Placeholder string
	Value       string // prefill
	MaxLen      int    // 0 means unbounded
}

// DialogSpec is the caller-supplied content of a modal dialog: header, a
// sub-form, and lifecycle hooks. Step/StepCount drive multi-step progress
// indicators (zero values mean single-step).
//
// Rendering contract: only the dialog panel captures pointer events. The
// backdrop stays transparent to clicks so the underlying page remains
// interactive while the dialog is open.
type DialogSpec struct {
	Title    string
	Subtitle string

	Fields      []FieldSpec
	SubmitLabel string
	CancelLabel string // empty means no cancel control
	BackLabel   string // empty means no back control

	Step      int
	StepCount int

	// OnDismiss runs exactly once, on whichever dismissal path fires first.
	OnDismiss func(DismissReason)
}

// DialogView is what the renderer receives to draw a dialog.
type DialogView struct {
	ID   string
	Spec DialogSpec
}

// Dialog is the handle to a presented modal. Handles stay valid after close;
// operations on a closed dialog are no-ops so asynchronous continuations can
// run after the surface is gone.
type Dialog struct {
	id   string
	spec DialogSpec
	mgr  *Manager

	closed  atomic.Bool
	dismiss sync.Once
}

// ID returns the dialog's instance identifier.
func (d *Dialog) ID() string {
	if d == nil {
		return ""
	}
	return d.id
}

// Closed reports whether the dialog has been dismissed.
func (d *Dialog) Closed() bool {
	return d == nil || d.closed.Load()
}

// Flash sets the dialog's inline message slot. No-op once the dialog is
// closed.
func (d *Dialog) Flash(f Flash) {
	if d.Closed() || d.mgr == nil || d.mgr.r == nil {
		return
	}
	d.mgr.r.ShowDialogFlash(d.id, f)
}

// Dismiss reports a dismissal gesture from the host (close control, escape,
// cancel). Safe to call more than once; only the first call has effect.
func (d *Dialog) Dismiss(reason DismissReason) {
	if d == nil {
		return
	}
	d.finish(reason)
}

func (d *Dialog) finish(reason DismissReason) {
	d.dismiss.Do(func() {
		d.closed.Store(true)
		if d.mgr != nil {
			d.mgr.release(d)
			if d.mgr.r != nil {
				d.mgr.r.DismissDialog(d.id)
			}
		}
		if d.spec.OnDismiss != nil {
			d.spec.OnDismiss(reason)
		}
	})
}

// Manager owns the single modal slot. All dialog presentation goes through
// Open, which unconditionally evicts any prior instance first, so at most one
// dialog exists at any time.
type Manager struct {
	mu     sync.Mutex
	r      Renderer
	active *Dialog

	focusDelay time.Duration
	schedule   func(time.Duration, func())
}

// NewManager returns a Manager rendering through r.
func NewManager(r Renderer) *Manager {
	return &Manager{
		r:          r,
		focusDelay: defaultFocusDelay,
		schedule:   func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// Open presents a new dialog, replacing any active one (reason
// ReasonReplaced). The replaced dialog's dismiss hook runs before the new
// dialog is presented.
func (m *Manager) Open(spec DialogSpec) *Dialog {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	prev := m.active
	m.active = nil
	m.mu.Unlock()

	if prev != nil {
		prev.finish(ReasonReplaced)
	}

	d := &Dialog{
		id:   uuid.NewString(),
		spec: spec,
		mgr:  m,
	}

	m.mu.Lock()
	m.active = d
	m.mu.Unlock()

	if m.r != nil {
		m.r.PresentDialog(DialogView{ID: d.id, Spec: spec})
	}

	// Focus lands after the host had a chance to lay the panel out.
	m.schedule(m.focusDelay, func() {
		if !d.Closed() && m.r != nil {
			m.r.FocusFirst(d.id)
		}
	})

	return d
}

// Close dismisses the active dialog, if any, with the given reason.
func (m *Manager) Close(reason DismissReason) {
	if m == nil {
		return
	}
	m.mu.Lock()
	d := m.active
	m.mu.Unlock()
	if d != nil {
		d.finish(reason)
	}
}

// Active returns the current dialog handle, or nil.
func (m *Manager) Active() *Dialog {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Manager) release(d *Dialog) {
	m.mu.Lock()
	if m.active == d {
		m.active = nil
	}
	m.mu.Unlock()
}
