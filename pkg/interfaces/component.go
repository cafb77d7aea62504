package interfaces

import "context"

// Component is the marker contract for services owned by the application.
// Concrete components expose their own typed APIs; the registry only cares
// about identity and optional lifecycle hooks.
type Component any

// Initializable is implemented by components that need a post-construction
// hook. Init runs after property overrides have been applied and before the
// instance is handed to the first caller.
type Initializable interface {
	Init(ctx context.Context, app AppContext) error
}

// Closable is implemented by components that hold external resources. Close
// is invoked during End, in reverse construction order.
type Closable interface {
	Close() error
}

// AppContext is the capability surface components receive instead of a
// process-wide application singleton. It is intentionally narrow: identity,
// paths, locale state, and access to sibling components.
type AppContext interface {
	// ID returns the stable application identifier.
	ID() string
	// Name returns the configured application name.
	Name() string
	// BasePath returns the application root directory.
	BasePath() string
	// RuntimePath returns the validated writable runtime directory.
	RuntimePath() string
	// Language returns the effective language after override resolution.
	Language() string
	// Component resolves a sibling component by name, constructing it
	// lazily on first access.
	Component(name string) (Component, error)
	// Logger returns a module-scoped logger.
	Logger(module string) Logger
}

// MessageSource translates message keys for a category and language.
type MessageSource interface {
	Translate(ctx context.Context, category, key, language string) (string, error)
}

// StatePersister loads and saves cross-request application state.
type StatePersister interface {
	Load(ctx context.Context) (map[string]any, error)
	Save(ctx context.Context, state map[string]any) error
}

// SecurityManager signs and validates opaque payloads.
type SecurityManager interface {
	Sign(data []byte) ([]byte, error)
	Validate(data, signature []byte) (bool, error)
}

// Cache exposes the minimal cache surface components rely on.
type Cache interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// ErrorHandler receives errors surfaced during request processing.
type ErrorHandler interface {
	Handle(ctx context.Context, err error)
	Last() error
}

// Formatter renders values for presentation.
type Formatter interface {
	Number(value float64, decimals int) string
	Boolean(value bool) string
	Date(value any, layout string) (string, error)
	Markdown(source []byte) ([]byte, error)
	HTML(source string) string
}
