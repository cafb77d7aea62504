// Package appkit is an application kernel: it owns a registry of named,
// lazily constructed service components, drives a fixed request lifecycle
// (beforeRequest, process, afterRequest), and resolves locale-dependent
// behavior such as effective language and localized file lookup.
package appkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-appkit/internal/components/cache"
	"github.com/goliatone/go-appkit/internal/components/database"
	"github.com/goliatone/go-appkit/internal/components/errorhandler"
	"github.com/goliatone/go-appkit/internal/components/format"
	"github.com/goliatone/go-appkit/internal/components/messages"
	"github.com/goliatone/go-appkit/internal/components/security"
	"github.com/goliatone/go-appkit/internal/components/statestore"
	"github.com/goliatone/go-appkit/internal/components/urls"
	"github.com/goliatone/go-appkit/internal/components/webrequest"
	"github.com/goliatone/go-appkit/internal/identity"
	"github.com/goliatone/go-appkit/internal/lifecycle"
	"github.com/goliatone/go-appkit/internal/locale"
	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/internal/logging/console"
	"github.com/goliatone/go-appkit/internal/logging/gologger"
	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// Canonical component names registered by the composition root.
const (
	ComponentDB             = "db"
	ComponentErrorHandler   = "errorHandler"
	ComponentSecurity       = "securityManager"
	ComponentStatePersister = "statePersister"
	ComponentCache          = "cache"
	ComponentCoreMessages   = "coreMessages"
	ComponentMessages       = "messages"
	ComponentRequest        = "request"
	ComponentResponse       = "response"
	ComponentFormatter      = "format"
	ComponentURLManager     = "urlManager"
)

const codeRuntimePathInvalid = "RUNTIME_PATH_INVALID"

// State re-exports the lifecycle state type for callers inspecting progress.
type State = lifecycle.State

// Handler observes a lifecycle phase.
type Handler = lifecycle.Handler

// Processor is the request-processing hook supplied by the host.
type Processor = lifecycle.Processor

// Application is the composition root: it wires the component registry, the
// lifecycle controller, and the locale resolver for one application
// instance. There is no process-wide singleton; the instance is passed to
// components and observers explicitly.
type Application struct {
	config Config

	provider interfaces.LoggerProvider
	logger   interfaces.Logger

	registry  *registry.Registry
	lifecycle *lifecycle.Controller
	locale    *locale.Resolver
	exitFunc  func(int)

	mu          sync.Mutex
	runtimePath string
	id          string
}

// Option mutates the application during construction.
type Option func(*Application)

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(a *Application) {
		if provider != nil {
			a.provider = provider
		}
	}
}

// WithExitFunc replaces process termination during End, primarily for tests.
func WithExitFunc(exit func(int)) Option {
	return func(a *Application) {
		a.exitFunc = exit
	}
}

// New constructs an application rooted at cfg.BasePath and registers the
// core component descriptors. No component is constructed here; resolution
// happens during Initialize preloading or on first access.
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Application{config: cfg}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.provider == nil {
		provider, err := buildLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		a.provider = provider
	}
	a.logger = logging.ModuleLogger(a.provider, "app")

	localeOpts := []locale.Option{locale.WithLogger(logging.LocaleLogger(a.provider))}
	a.locale = locale.New(cfg.SourceLanguage, localeOpts...)
	if cfg.Language != "" {
		a.locale.SetLanguage(cfg.Language)
	}
	if cfg.TimeZone != "" {
		zone, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("appkit: load time zone %q: %w", cfg.TimeZone, err)
		}
		a.locale.SetTimeZone(zone)
	}

	a.registry = registry.New(
		registry.WithLogger(logging.RegistryLogger(a.provider)),
		registry.WithFactories(a.coreFactories()),
	)
	a.registry.SetMany(a.coreDescriptors())
	if len(cfg.Components) > 0 {
		a.registry.SetMany(cfg.Components)
	}
	if cfg.URLs != nil {
		manager, err := urls.New(cfg.URLs)
		if err != nil {
			return nil, err
		}
		a.registry.SetInstance(ComponentURLManager, manager)
	}
	a.registry.Bind(a)

	lifecycleOpts := []lifecycle.Option{lifecycle.WithLogger(logging.LifecycleLogger(a.provider))}
	if a.exitFunc != nil {
		lifecycleOpts = append(lifecycleOpts, lifecycle.WithExitFunc(a.exitFunc))
	}
	a.lifecycle = lifecycle.New(a.registry, lifecycleOpts...)
	a.lifecycle.Bind(a)

	return a, nil
}

// coreDescriptors returns the default component configuration records. All
// start unconstructed; hosts override individual entries via
// Config.Components.
func (a *Application) coreDescriptors() map[string]registry.Config {
	descriptors := map[string]registry.Config{
		ComponentErrorHandler:   {Type: errorhandler.TypeName},
		ComponentRequest:        {Type: webrequest.RequestTypeName},
		ComponentResponse:       {Type: webrequest.ResponseTypeName},
		ComponentFormatter:      {Type: format.TypeName},
		ComponentCoreMessages:   {Type: messages.CoreTypeName},
		ComponentMessages:       {Type: messages.FileTypeName},
		ComponentSecurity:       {Type: security.TypeName},
		ComponentStatePersister: {Type: statestore.TypeName},
	}

	if a.config.Messages.Store == "db" {
		descriptors[ComponentMessages] = registry.Config{Type: messages.DBTypeName}
	}
	if a.config.DB.Driver != "" || a.config.DB.DSN != "" {
		descriptors[ComponentDB] = registry.Config{
			Type: database.TypeName,
			Properties: map[string]any{
				"driver": a.config.DB.Driver,
				"dsn":    a.config.DB.DSN,
			},
		}
	}
	if a.config.Cache.Enabled {
		props := map[string]any{}
		if a.config.Cache.DefaultTTL > 0 {
			props["ttl"] = a.config.Cache.DefaultTTL.String()
		}
		descriptors[ComponentCache] = registry.Config{Type: cache.TypeName, Properties: props}
	}
	if a.config.Security.ValidationKey != "" {
		descriptors[ComponentSecurity] = registry.Config{
			Type: security.TypeName,
			Properties: map[string]any{
				"validation_key": a.config.Security.ValidationKey,
			},
		}
	}
	if a.config.State.FileName != "" {
		descriptors[ComponentStatePersister] = registry.Config{
			Type: statestore.TypeName,
			Properties: map[string]any{
				"file_name": a.config.State.FileName,
			},
		}
	}
	return descriptors
}

// coreFactories returns the factory table for the built-in component types.
// Message source factories close over the application locale resolver so a
// language override set after construction still steers lookups.
func (a *Application) coreFactories() map[string]registry.Factory {
	return map[string]registry.Factory{
		errorhandler.TypeName:        errorhandler.Factory,
		webrequest.RequestTypeName:   webrequest.RequestFactory,
		webrequest.ResponseTypeName:  webrequest.ResponseFactory,
		format.TypeName:              format.Factory,
		statestore.TypeName:          statestore.Factory,
		security.TypeName:            security.Factory,
		database.TypeName:            database.Factory,
		cache.TypeName:               cache.Factory,
		urls.TypeName:                urls.Factory,
		messages.CoreTypeName:        a.coreMessagesFactory,
		messages.FileTypeName:        a.fileMessagesFactory,
		messages.DBTypeName:          a.dbMessagesFactory,
	}
}

func (a *Application) coreMessagesFactory(_ context.Context, _ interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	if a.config.Messages.CorePath != "" {
		return messages.NewFileSource(
			a.config.Messages.CorePath,
			a.locale,
			messages.WithLogger(logging.MessagesLogger(a.provider)),
		), nil
	}
	return messages.NewCoreSource(
		a.config.SourceLanguage,
		messages.WithLogger(logging.MessagesLogger(a.provider)),
	), nil
}

func (a *Application) fileMessagesFactory(_ context.Context, _ interfaces.AppContext, cfg registry.Config) (interfaces.Component, error) {
	base, _ := cfg.Properties["base_path"].(string)
	if base == "" {
		base = a.config.Messages.BasePath
	}
	if base == "" {
		base = filepath.Join(a.config.BasePath, "messages")
	}
	return messages.NewFileSource(
		base,
		a.locale,
		messages.WithLogger(logging.MessagesLogger(a.provider)),
	), nil
}

func (a *Application) dbMessagesFactory(ctx context.Context, app interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	conn, err := resolve[*database.Connection](ctx, a, ComponentDB)
	if err != nil {
		return nil, err
	}

	var dbOpts []messages.DBOption
	if a.registry.Has(ComponentCache) {
		if cacheComponent, cacheErr := resolve[*cache.Component](ctx, a, ComponentCache); cacheErr == nil {
			dbOpts = append(dbOpts, messages.WithRepositoryCache(cacheComponent.Service(), cacheComponent.Serializer()))
		}
	}

	source, err := messages.NewDBSource(conn.DB(), a.config.SourceLanguage, dbOpts...)
	if err != nil {
		return nil, err
	}
	if err := source.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return source, nil
}

func buildLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch cfg.Provider {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		opts := console.Options{}
		if level, ok := consoleLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}

func consoleLevel(level string) (console.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace, true
	case "debug":
		return console.LevelDebug, true
	case "info":
		return console.LevelInfo, true
	case "warn", "warning":
		return console.LevelWarn, true
	case "error":
		return console.LevelError, true
	case "fatal":
		return console.LevelFatal, true
	default:
		return console.LevelInfo, false
	}
}

// Name returns the configured application name.
func (a *Application) Name() string {
	return a.config.Name
}

// BasePath returns the application root directory.
func (a *Application) BasePath() string {
	return a.config.BasePath
}

// ID returns the explicitly configured identifier, or a deterministic value
// derived from the base path and name. The derivation is stable for the
// lifetime of the instance but not guaranteed collision-free.
func (a *Application) ID() string {
	if a.config.ID != "" {
		return a.config.ID
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.id == "" {
		a.id = identity.ApplicationID(a.config.BasePath, a.config.Name)
	}
	return a.id
}

// RuntimePath returns the writable working directory, lazily defaulting to
// {basePath}/runtime on first read when never explicitly set. The lazy
// default is not validated; SetRuntimePath is.
func (a *Application) RuntimePath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimePath == "" {
		if a.config.RuntimePath != "" {
			a.runtimePath = a.config.RuntimePath
		} else {
			a.runtimePath = filepath.Join(a.config.BasePath, "runtime")
		}
	}
	return a.runtimePath
}

// SetRuntimePath validates eagerly that path is an existing writable
// directory and records it.
func (a *Application) SetRuntimePath(path string) error {
	if err := validateWritableDir(path); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimePath = path
	return nil
}

func validateWritableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return goerrors.New("runtime path does not exist or is not a directory: "+path, goerrors.CategoryValidation).
			WithTextCode(codeRuntimePathInvalid)
	}
	probe, err := os.CreateTemp(path, ".appkit-probe-*")
	if err != nil {
		return goerrors.New("runtime path is not writable: "+path, goerrors.CategoryValidation).
			WithTextCode(codeRuntimePathInvalid)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// Language returns the effective language after override resolution.
func (a *Application) Language() string {
	return a.locale.Language()
}

// SetLanguage installs a language override; the empty string clears it.
func (a *Application) SetLanguage(language string) {
	a.locale.SetLanguage(language)
}

// Locale exposes the locale resolver for time zone and localized file
// operations.
func (a *Application) Locale() *locale.Resolver {
	return a.locale
}

// FindLocalizedFile resolves the localized variant of path for the current
// effective language.
func (a *Application) FindLocalizedFile(path string, opts ...locale.FindOption) string {
	return a.locale.FindLocalizedFile(path, opts...)
}

// Logger returns a module-scoped logger from the application provider.
func (a *Application) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(a.provider, module)
}

// Component resolves a component by name, constructing lazily on first
// access. Part of the interfaces.AppContext capability handed to factories
// and observers.
func (a *Application) Component(name string) (interfaces.Component, error) {
	return a.registry.Get(context.Background(), name)
}

// HasComponent reports whether a descriptor exists for name, constructed or
// not.
func (a *Application) HasComponent(name string) bool {
	return a.registry.Has(name)
}

// SetComponents merges descriptors into the registry: new names are added,
// existing names have their descriptor replaced and any memoized instance
// discarded.
func (a *Application) SetComponents(configs map[string]ComponentConfig) {
	a.registry.SetMany(configs)
}

// RegisterFactory extends the component factory table with a host type.
func (a *Application) RegisterFactory(typeName string, factory registry.Factory) {
	a.registry.RegisterFactory(typeName, factory)
}

// RegisterSchema attaches a JSON schema validated against descriptor
// properties for typeName.
func (a *Application) RegisterSchema(typeName string, schema map[string]any) error {
	return a.registry.RegisterSchema(typeName, schema)
}

// State returns the current lifecycle state.
func (a *Application) State() State {
	return a.lifecycle.State()
}

// OnBeforeRequest appends an observer fired before request processing.
func (a *Application) OnBeforeRequest(fn Handler) {
	a.lifecycle.OnBeforeRequest(fn)
}

// OnAfterRequest appends an observer fired after request processing.
func (a *Application) OnAfterRequest(fn Handler) {
	a.lifecycle.OnAfterRequest(fn)
}

// Initialize preloads the configured components in declared order. A nil
// preload list defaults to the error handler so failures during later
// construction are captured; an explicitly empty list preloads nothing.
func (a *Application) Initialize(ctx context.Context) error {
	preload := a.config.Preload
	if preload == nil {
		preload = []string{ComponentErrorHandler}
	}
	for _, name := range preload {
		if !a.registry.Has(name) {
			return fmt.Errorf("%w: %s", ErrPreloadUnknownComponent, name)
		}
	}
	return a.lifecycle.Initialize(ctx, preload)
}

// Run executes one request through the lifecycle: beforeRequest observers,
// the supplied processor, then afterRequest observers. The context is
// annotated with application identity so context-aware loggers tag request
// entries.
func (a *Application) Run(ctx context.Context, processor Processor) error {
	ctx = logging.ContextWithFields(ctx, map[string]any{
		"app":    a.config.Name,
		"app_id": a.ID(),
	})
	return a.lifecycle.Run(ctx, processor)
}

// End fires afterRequest observers exactly once across the application
// lifetime, releases components, and optionally terminates the process with
// status.
func (a *Application) End(ctx context.Context, status int, terminate bool) error {
	return a.lifecycle.End(ctx, status, terminate)
}

// resolve fetches a component by name and asserts its concrete type.
func resolve[T any](ctx context.Context, a *Application, name string) (T, error) {
	var zero T
	component, err := a.registry.Get(ctx, name)
	if err != nil {
		return zero, err
	}
	typed, ok := component.(T)
	if !ok {
		return zero, fmt.Errorf("appkit: component %q has unexpected type %T", name, component)
	}
	return typed, nil
}

// DB returns the database component.
func (a *Application) DB(ctx context.Context) (*database.Connection, error) {
	return resolve[*database.Connection](ctx, a, ComponentDB)
}

// ErrorHandler returns the error handler component.
func (a *Application) ErrorHandler(ctx context.Context) (interfaces.ErrorHandler, error) {
	return resolve[interfaces.ErrorHandler](ctx, a, ComponentErrorHandler)
}

// SecurityManager returns the security manager component.
func (a *Application) SecurityManager(ctx context.Context) (interfaces.SecurityManager, error) {
	return resolve[interfaces.SecurityManager](ctx, a, ComponentSecurity)
}

// StatePersister returns the state persister component.
func (a *Application) StatePersister(ctx context.Context) (interfaces.StatePersister, error) {
	return resolve[interfaces.StatePersister](ctx, a, ComponentStatePersister)
}

// Cache returns the cache component.
func (a *Application) Cache(ctx context.Context) (interfaces.Cache, error) {
	return resolve[interfaces.Cache](ctx, a, ComponentCache)
}

// CoreMessages returns the framework message source.
func (a *Application) CoreMessages(ctx context.Context) (interfaces.MessageSource, error) {
	return resolve[interfaces.MessageSource](ctx, a, ComponentCoreMessages)
}

// Messages returns the application message source.
func (a *Application) Messages(ctx context.Context) (interfaces.MessageSource, error) {
	return resolve[interfaces.MessageSource](ctx, a, ComponentMessages)
}

// Request returns the request component.
func (a *Application) Request(ctx context.Context) (*webrequest.Request, error) {
	return resolve[*webrequest.Request](ctx, a, ComponentRequest)
}

// Response returns the response component.
func (a *Application) Response(ctx context.Context) (*webrequest.Response, error) {
	return resolve[*webrequest.Response](ctx, a, ComponentResponse)
}

// Formatter returns the formatter component.
func (a *Application) Formatter(ctx context.Context) (interfaces.Formatter, error) {
	return resolve[interfaces.Formatter](ctx, a, ComponentFormatter)
}

// URLs returns the URL manager component.
func (a *Application) URLs(ctx context.Context) (*urls.Manager, error) {
	return resolve[*urls.Manager](ctx, a, ComponentURLManager)
}
