package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// Registry is the component service locator: it maps names to state-tagged
// slots and constructs instances lazily through a factory table keyed by
// descriptor type name. Each name constructs at most once per registry
// lifetime unless explicitly re-registered.
type Registry struct {
	mu        sync.RWMutex
	slots     map[string]*slot
	factories map[string]Factory
	schemas   map[string]*propertySchema

	app    interfaces.AppContext
	logger interfaces.Logger

	// built tracks construction order so Close can release resources in
	// reverse.
	built []string
}

// Option mutates the registry during construction.
type Option func(*Registry)

// WithLogger overrides the registry logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFactories seeds the factory table.
func WithFactories(factories map[string]Factory) Option {
	return func(r *Registry) {
		for name, factory := range factories {
			if factory != nil {
				r.factories[name] = factory
			}
		}
	}
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		slots:     map[string]*slot{},
		factories: map[string]Factory{},
		schemas:   map[string]*propertySchema{},
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Bind attaches the application capability passed to factories and Init
// hooks. The registry is assembled before the application finishes
// construction, so binding happens as a second step.
func (r *Registry) Bind(app interfaces.AppContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.app = app
}

// RegisterFactory extends the factory table. Registering an existing type
// name replaces its factory; slots already constructed are unaffected.
func (r *Registry) RegisterFactory(typeName string, factory Factory) {
	if typeName == "" || factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeName] = factory
}

// RegisterSchema attaches a JSON schema validated against descriptor
// properties before the factory for typeName runs. Passing a nil schema
// clears any prior registration.
func (r *Registry) RegisterSchema(typeName string, schema map[string]any) error {
	compiled, err := compilePropertySchema(schema)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if compiled == nil {
		delete(r.schemas, typeName)
		return nil
	}
	r.schemas[typeName] = compiled
	return nil
}

// Set registers a configuration descriptor for name. Existing descriptors
// are overwritten; a previously memoized instance for the name is discarded.
func (r *Registry) Set(name string, cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[name] = newConfigSlot(cfg)
}

// SetInstance registers an already-constructed instance under name.
func (r *Registry) SetInstance(name string, instance interfaces.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[name] = newInstanceSlot(instance)
	r.built = append(r.built, name)
}

// SetMany merges descriptors into the registry: new names are added and
// existing names have their descriptor replaced.
func (r *Registry) SetMany(configs map[string]Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, cfg := range configs {
		r.slots[name] = newConfigSlot(cfg)
	}
}

// Has reports whether a descriptor exists for name, constructed or not.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slots[name]
	return ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.slots))
	for name := range r.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get resolves name to an instance, constructing and memoizing on first
// access. Construction errors from the component's own initialization
// propagate unchanged; wiring failures surface as configuration errors.
func (r *Registry) Get(ctx context.Context, name string) (interfaces.Component, error) {
	r.mu.RLock()
	s, ok := r.slots[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NotRegisteredError(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == slotConstructed {
		return s.instance, nil
	}

	instance, err := r.construct(ctx, name, s.config)
	if err != nil {
		return nil, err
	}

	s.instance = instance
	s.config = Config{}
	s.state = slotConstructed

	r.mu.Lock()
	r.built = append(r.built, name)
	r.mu.Unlock()

	r.logger.Debug("component constructed", "component", name)
	return instance, nil
}

func (r *Registry) construct(ctx context.Context, name string, cfg Config) (interfaces.Component, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Type]
	schema := r.schemas[cfg.Type]
	app := r.app
	r.mu.RUnlock()

	if !ok {
		return nil, UnknownTypeError(name, cfg.Type)
	}

	if schema != nil {
		if err := schema.validate(cfg.Properties); err != nil {
			return nil, invalidPropertiesError(name, err)
		}
	}

	instance, err := factory(ctx, app, cfg)
	if err != nil {
		return nil, err
	}

	if configurable, ok := instance.(Configurable); ok && len(cfg.Properties) > 0 {
		if err := configurable.ApplyProperties(cfg.Properties); err != nil {
			return nil, invalidPropertiesError(name, err)
		}
	}

	if initializable, ok := instance.(interfaces.Initializable); ok {
		if err := initializable.Init(ctx, app); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

// Preload eagerly resolves the named components in declared order. The first
// failure aborts and propagates; order matters because construction may have
// side effects later components rely on.
func (r *Registry) Preload(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.Get(ctx, name); err != nil {
			r.logger.Error("preload failed", "component", name, "error", err)
			return err
		}
		r.logger.Debug("component preloaded", "component", name)
	}
	return nil
}

// Close releases constructed components that hold resources, in reverse
// construction order. The first error is retained but every component is
// still closed.
func (r *Registry) Close() error {
	r.mu.Lock()
	built := make([]string, len(r.built))
	copy(built, r.built)
	r.mu.Unlock()

	var firstErr error
	for i := len(built) - 1; i >= 0; i-- {
		r.mu.RLock()
		s, ok := r.slots[built[i]]
		r.mu.RUnlock()
		if !ok {
			continue
		}
		s.mu.Lock()
		instance := s.instance
		s.mu.Unlock()
		if closable, ok := instance.(interfaces.Closable); ok {
			if err := closable.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
