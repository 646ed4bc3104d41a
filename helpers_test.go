package authflow

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ldtran/authflow/surface"
)

// fakeAuthServer scripts the remote service per path and records every call.
type fakeAuthServer struct {
	mu        sync.Mutex
	responses map[string]string
	calls     map[string][]recordedCall
	srv       *httptest.Server
}

type recordedCall struct {
	Method   string
	RawQuery string
	Body     map[string]any
	HasBody  bool
}

func newFakeAuthServer(t *testing.T) *fakeAuthServer {
	t.Helper()

	fs := &fakeAuthServer{
		responses: make(map[string]string),
		calls:     make(map[string][]recordedCall),
	}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, RawQuery: r.URL.RawQuery}
		if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
			call.HasBody = true
			_ = json.Unmarshal(raw, &call.Body)
		}

		fs.mu.Lock()
		fs.calls[r.URL.Path] = append(fs.calls[r.URL.Path], call)
		resp, ok := fs.responses[r.URL.Path]
		fs.mu.Unlock()

		if !ok {
			resp = `{"success":true,"message":"ok"}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeAuthServer) respond(path, body string) {
	fs.mu.Lock()
	fs.responses[path] = body
	fs.mu.Unlock()
}

func (fs *fakeAuthServer) callCount(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.calls[path])
}

func (fs *fakeAuthServer) totalCalls() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	total := 0
	for _, calls := range fs.calls {
		total += len(calls)
	}
	return total
}

func (fs *fakeAuthServer) lastCall(t *testing.T, path string) recordedCall {
	t.Helper()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	calls := fs.calls[path]
	if len(calls) == 0 {
		t.Fatalf("no calls recorded for %s", path)
	}
	return calls[len(calls)-1]
}

// manualScheduler collects delayed continuations so tests decide when the
// close/redirect delays elapse.
type manualScheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (m *manualScheduler) schedule(_ time.Duration, fn func()) {
	m.mu.Lock()
	m.fns = append(m.fns, fn)
	m.mu.Unlock()
}

func (m *manualScheduler) fire() {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (m *manualScheduler) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fns)
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	n.routes = append(n.routes, route)
	n.mu.Unlock()
}

func (n *recordingNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

type testHarness struct {
	controller *Controller
	renderer   *surface.MemoryRenderer
	nav        *recordingNavigator
	clock      *manualScheduler
}

func newTestController(t *testing.T, baseURL string, opts ...func(*Builder)) *testHarness {
	t.Helper()

	renderer := surface.NewMemoryRenderer()
	nav := &recordingNavigator{}
	clock := &manualScheduler{}

	b := New().
		WithBaseURL(baseURL).
		WithRenderer(renderer).
		WithNavigator(nav)
	for _, opt := range opts {
		opt(b)
	}

	controller, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	controller.schedule = clock.schedule
	t.Cleanup(controller.Close)

	return &testHarness{
		controller: controller,
		renderer:   renderer,
		nav:        nav,
		clock:      clock,
	}
}

// openDialog asserts exactly one dialog is on screen and returns its view.
func (h *testHarness) openDialog(t *testing.T) surface.DialogView {
	t.Helper()
	open := h.renderer.OpenDialogs()
	if len(open) != 1 {
		t.Fatalf("expected exactly one open dialog, got %d", len(open))
	}
	return open[0]
}
