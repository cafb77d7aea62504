package runtimeconfig

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-appkit/internal/registry"
)

// ErrBasePathRequired indicates the application was constructed without a root directory.
var ErrBasePathRequired = errors.New("appkit config: base path is required")

// ErrLoggingProviderUnknown rejects logging providers outside the supported set.
var ErrLoggingProviderUnknown = errors.New("appkit config: logging provider is invalid")

// ErrLoggingLevelInvalid rejects unknown logging levels.
var ErrLoggingLevelInvalid = errors.New("appkit config: logging level is invalid")

// ErrLoggingFormatInvalid rejects unknown logging formats.
var ErrLoggingFormatInvalid = errors.New("appkit config: logging format is invalid")

// ErrDBDriverUnknown rejects database drivers the db component cannot open.
var ErrDBDriverUnknown = errors.New("appkit config: db driver is invalid")

// ErrPreloadUnknownComponent flags preload entries without a matching descriptor.
var ErrPreloadUnknownComponent = errors.New("appkit config: preload names an unregistered component")

// Config aggregates application identity, locale defaults, component
// descriptors, and adapter bindings for the kernel. Fields intentionally use
// simple types so host applications can extend them later.
type Config struct {
	Name           string
	ID             string
	BasePath       string
	RuntimePath    string
	SourceLanguage string
	Language       string
	Charset        string
	TimeZone       string

	Preload    []string
	Components map[string]registry.Config

	Logging  LoggingConfig
	DB       DBConfig
	Cache    CacheConfig
	Messages MessagesConfig
	Security SecurityConfig
	State    StateConfig

	// URLs configures the urlkit-backed URL manager component when present.
	URLs *urlkit.Config
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DBConfig wires the db component. Driver selects the dialect; DSN is passed
// to the driver unchanged.
type DBConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// MessagesConfig locates translation message files.
type MessagesConfig struct {
	// BasePath holds application message files, one directory per language.
	BasePath string
	// CorePath holds framework message files; empty falls back to the
	// embedded defaults.
	CorePath string
	// Store selects "file" (default) or "db" backed application messages.
	Store string
}

// SecurityConfig adjusts the security manager component.
type SecurityConfig struct {
	// ValidationKey seeds HMAC signing; empty generates and persists one
	// under the runtime path on first use.
	ValidationKey string
}

// StateConfig adjusts the state persister component.
type StateConfig struct {
	// FileName overrides the slug-derived state file name.
	FileName string
}

const (
	loggingProviderConsole = "console"
	loggingProviderGo      = "gologger"
)

// Validate checks cross-field consistency before the application boots.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BasePath) == "" {
		return ErrBasePathRequired
	}

	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 128)),
	); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Provider)) {
	case "", loggingProviderConsole, loggingProviderGo:
	default:
		return ErrLoggingProviderUnknown
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}

	if driver := strings.TrimSpace(c.DB.Driver); driver != "" {
		switch driver {
		case "sqlite3", "postgres":
		default:
			return ErrDBDriverUnknown
		}
	}

	return nil
}

// DefaultConfig returns the baseline configuration hosts are expected to
// amend with identity and component overrides.
func DefaultConfig() Config {
	return Config{
		SourceLanguage: "en_us",
		Charset:        "UTF-8",
		Logging: LoggingConfig{
			Provider: loggingProviderConsole,
			Level:    "info",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Messages: MessagesConfig{
			Store: "file",
		},
	}
}
