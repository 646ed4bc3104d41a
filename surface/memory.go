package surface

import "sync"

// MemoryRenderer is an in-memory Renderer recording every mutation. It backs
// the package tests and the console demo; it is not safe to share across
// controllers.
type MemoryRenderer struct {
	mu sync.Mutex

	flashes       map[Region]Flash
	dialogFlashes map[string]Flash
	presented     []DialogView
	open          map[string]DialogView
	focused       []string
	view          ViewMode
	viewSet       bool
}

// NewMemoryRenderer returns an empty MemoryRenderer.
func NewMemoryRenderer() *MemoryRenderer {
	return &MemoryRenderer{
		flashes:       make(map[Region]Flash),
		dialogFlashes: make(map[string]Flash),
		open:          make(map[string]DialogView),
	}
}

// ShowFlash implements Renderer.
func (m *MemoryRenderer) ShowFlash(region Region, flash Flash) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flashes[region] = flash
}

// ShowDialogFlash implements Renderer.
func (m *MemoryRenderer) ShowDialogFlash(dialogID string, flash Flash) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogFlashes[dialogID] = flash
}

// PresentDialog implements Renderer.
func (m *MemoryRenderer) PresentDialog(view DialogView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presented = append(m.presented, view)
	m.open[view.ID] = view
}

// DismissDialog implements Renderer.
func (m *MemoryRenderer) DismissDialog(dialogID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.open, dialogID)
	delete(m.dialogFlashes, dialogID)
}

// FocusFirst implements Renderer.
func (m *MemoryRenderer) FocusFirst(dialogID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = append(m.focused, dialogID)
}

// ActivateView implements Renderer.
func (m *MemoryRenderer) ActivateView(mode ViewMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = mode
	m.viewSet = true
}

// FlashFor returns the current flash of a form region.
func (m *MemoryRenderer) FlashFor(region Region) Flash {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flashes[region]
}

// DialogFlash returns the current flash inside an open dialog.
func (m *MemoryRenderer) DialogFlash(dialogID string) Flash {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialogFlashes[dialogID]
}

// OpenDialogs returns the views of all dialogs currently on screen. The
// single-modal invariant means the result has length zero or one.
func (m *MemoryRenderer) OpenDialogs() []DialogView {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DialogView, 0, len(m.open))
	for _, v := range m.open {
		out = append(out, v)
	}
	return out
}

// PresentedCount returns how many dialogs were ever presented.
func (m *MemoryRenderer) PresentedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.presented)
}

// Focused returns the dialog IDs that received first-control focus, in order.
func (m *MemoryRenderer) Focused() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.focused...)
}

// ActiveView returns the last activated view and whether any activation
// happened at all.
func (m *MemoryRenderer) ActiveView() (ViewMode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view, m.viewSet
}
