package surface

// Severity classifies a flash message.
type Severity uint8

const (
	// SeverityNone clears the visible text of a message slot without
	// removing the slot itself.
	SeverityNone Severity = iota
	// SeveritySuccess marks a positive outcome.
	SeveritySuccess
	// SeverityError marks a validation, business, or transport failure.
	SeverityError
)

// String returns the presentation class for the severity, matching the
// "", "success", "error" class triple hosts typically style against.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return ""
	}
}

// Flash is one inline message: text plus severity.
type Flash struct {
	Severity Severity
	Message  string
}

// Region identifies a form area that owns exactly one flash message slot.
type Region string

const (
	// RegionRegister is the registration form.
	RegionRegister Region = "register"
	// RegionLogin is the login form.
	RegionLogin Region = "login"
)

// Notifier renders inline flash messages through the host renderer. Flashing
// is idempotent per region: the renderer maintains one slot per region and
// each call replaces its content.
type Notifier struct {
	r Renderer
}

// NewNotifier returns a Notifier writing through r.
func NewNotifier(r Renderer) *Notifier {
	return &Notifier{r: r}
}

// Flash sets the message slot of region.
func (n *Notifier) Flash(region Region, f Flash) {
	if n == nil || n.r == nil {
		return
	}
	n.r.ShowFlash(region, f)
}

// Success flashes msg with success severity.
func (n *Notifier) Success(region Region, msg string) {
	n.Flash(region, Flash{Severity: SeveritySuccess, Message: msg})
}

// Error flashes msg with error severity.
func (n *Notifier) Error(region Region, msg string) {
	n.Flash(region, Flash{Severity: SeverityError, Message: msg})
}

// Clear empties the region's message slot. The slot survives for reuse by
// later flashes.
func (n *Notifier) Clear(region Region) {
	n.Flash(region, Flash{})
}
