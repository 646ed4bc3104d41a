package authflow

import (
	"errors"
	"net/http"
	"time"

	"github.com/ldtran/authflow/api"
	"github.com/ldtran/authflow/session"
	"github.com/ldtran/authflow/surface"
)

// Builder assembles a Controller. Collaborators the host does not supply fall
// back to defaults; the renderer is the one mandatory collaborator.
type Builder struct {
	config   Config
	httpc    *http.Client
	renderer surface.Renderer
	nav      Navigator
	tokens   session.TokenStore
	sink     EventSink

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the remote service base URL.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient injects the http.Client used by the API boundary.
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	b.httpc = c
	return b
}

// WithRenderer injects the host presentation layer. Mandatory.
func (b *Builder) WithRenderer(r surface.Renderer) *Builder {
	b.renderer = r
	return b
}

// WithNavigator injects the host route changer used after an intercepted
// login succeeds. Optional; without one the controller skips navigation.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.nav = n
	return b
}

// WithTokenStore injects the durable token slot. Defaults to an in-memory
// store.
func (b *Builder) WithTokenStore(s session.TokenStore) *Builder {
	b.tokens = s
	return b
}

// WithEventSink injects the flow event sink.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	return b
}

// WithLoginStrategy selects the login submission handling.
func (b *Builder) WithLoginStrategy(s LoginStrategy) *Builder {
	b.config.Login.Strategy = s
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and assembles the Controller. A Builder
// builds at most once.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := normalizeConfig(b.config)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if b.renderer == nil {
		return nil, ErrRendererRequired
	}

	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Paths, b.httpc)
	if err != nil {
		return nil, err
	}

	tokens := b.tokens
	if tokens == nil {
		tokens = session.NewMemoryStore()
	}

	c := &Controller{
		config:  cfg,
		client:  client,
		flash:   surface.NewNotifier(b.renderer),
		modals:  surface.NewManager(b.renderer),
		views:   surface.NewViewToggle(b.renderer, surface.ViewLogin),
		tokens:  tokens,
		nav:     b.nav,
		metrics: NewMetrics(cfg.Metrics),
		events:  newEventDispatcher(cfg.Events, b.sink),
		now:     time.Now,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}

	b.built = true
	return c, nil
}
