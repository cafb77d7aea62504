package lifecycle

import (
	"context"
	"os"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

const codeLifecycleState = "LIFECYCLE_INVALID_STATE"

// Handler observes a lifecycle phase. Handlers run synchronously in
// registration order; a non-nil error short-circuits the remaining handlers
// and is returned to the caller.
type Handler func(ctx context.Context, app interfaces.AppContext) error

// Processor is the request-processing hook supplied by the host. The kernel
// itself performs no request work.
type Processor func(ctx context.Context, app interfaces.AppContext) error

// Controller drives preload ordering, phase sequencing, and idempotent
// termination for one application instance.
type Controller struct {
	mu         sync.Mutex
	state      State
	afterFired bool

	app      interfaces.AppContext
	registry *registry.Registry
	logger   interfaces.Logger
	exit     func(int)

	before []Handler
	after  []Handler
}

// Option mutates the controller during construction.
type Option func(*Controller)

// WithLogger overrides the lifecycle logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithExitFunc replaces process termination, primarily for tests.
func WithExitFunc(exit func(int)) Option {
	return func(c *Controller) {
		if exit != nil {
			c.exit = exit
		}
	}
}

// New constructs a controller bound to the given registry.
func New(reg *registry.Registry, opts ...Option) *Controller {
	c := &Controller{
		state:    StateCreated,
		registry: reg,
		logger:   logging.NoOp(),
		exit:     os.Exit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Bind attaches the application capability handed to observers and the
// processor hook.
func (c *Controller) Bind(app interfaces.AppContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.app = app
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnBeforeRequest appends an observer for the beforeRequest phase.
func (c *Controller) OnBeforeRequest(fn Handler) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.before = append(c.before, fn)
}

// OnAfterRequest appends an observer for the afterRequest phase.
func (c *Controller) OnAfterRequest(fn Handler) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.after = append(c.after, fn)
}

// Initialize resolves the preload list in declared order and moves the
// controller to StateInitialized. Any preload failure is fatal and leaves the
// application unstarted.
func (c *Controller) Initialize(ctx context.Context, preload []string) error {
	c.mu.Lock()
	if c.state != StateCreated {
		state := c.state
		c.mu.Unlock()
		return invalidStateError("initialize", state)
	}
	c.mu.Unlock()

	if err := c.registry.Preload(ctx, preload); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateInitialized
	c.mu.Unlock()

	c.logger.Debug("lifecycle initialized", "preloaded", len(preload))
	return nil
}

// Run executes one request: beforeRequest observers, the supplied processor,
// then afterRequest observers.
func (c *Controller) Run(ctx context.Context, processor Processor) error {
	c.mu.Lock()
	if c.state != StateInitialized {
		state := c.state
		c.mu.Unlock()
		return invalidStateError("run", state)
	}
	c.state = StateBeforeRequest
	app := c.app
	c.mu.Unlock()

	if err := c.fire(ctx, c.beforeHandlers()); err != nil {
		return err
	}

	c.setState(StateProcessing)
	if processor != nil {
		if err := processor(ctx, app); err != nil {
			return err
		}
	}

	if err := c.fireAfterOnce(ctx); err != nil {
		return err
	}
	c.setState(StateAfterRequest)
	return nil
}

// End guarantees afterRequest observers fire exactly once even when the
// request aborts before Run completes, then optionally terminates the
// process with status. Repeat calls are no-ops apart from termination.
func (c *Controller) End(ctx context.Context, status int, terminate bool) error {
	c.mu.Lock()
	ended := c.state == StateEnded
	c.mu.Unlock()

	var err error
	if !ended {
		err = c.fireAfterOnce(ctx)
		if closeErr := c.registry.Close(); closeErr != nil {
			c.logger.Warn("component close failed", "error", closeErr)
		}
		c.setState(StateEnded)
		c.logger.Debug("lifecycle ended", "status", status)
	}

	if terminate {
		c.exit(status)
	}
	return err
}

func (c *Controller) beforeHandlers() []Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	handlers := make([]Handler, len(c.before))
	copy(handlers, c.before)
	return handlers
}

// fireAfterOnce runs the afterRequest observers at most once per controller
// lifetime, whether triggered by Run completion or by End.
func (c *Controller) fireAfterOnce(ctx context.Context) error {
	c.mu.Lock()
	if c.afterFired {
		c.mu.Unlock()
		return nil
	}
	c.afterFired = true
	handlers := make([]Handler, len(c.after))
	copy(handlers, c.after)
	c.mu.Unlock()

	return c.fire(ctx, handlers)
}

func (c *Controller) fire(ctx context.Context, handlers []Handler) error {
	c.mu.Lock()
	app := c.app
	c.mu.Unlock()

	for _, fn := range handlers {
		if err := fn(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) setState(next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if next > c.state {
		c.state = next
	}
}

func invalidStateError(op string, state State) error {
	return goerrors.New("cannot "+op+" from lifecycle state "+state.String(), goerrors.CategoryValidation).
		WithTextCode(codeLifecycleState)
}
