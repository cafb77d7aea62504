package appkit

import (
	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/internal/runtimeconfig"
)

var (
	ErrBasePathRequired        = runtimeconfig.ErrBasePathRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrDBDriverUnknown         = runtimeconfig.ErrDBDriverUnknown
	ErrPreloadUnknownComponent = runtimeconfig.ErrPreloadUnknownComponent
)

// Configuration types are aliased from the internal runtime configuration
// package so hosts construct them without importing internal paths.
type (
	Config          = runtimeconfig.Config
	LoggingConfig   = runtimeconfig.LoggingConfig
	DBConfig        = runtimeconfig.DBConfig
	CacheConfig     = runtimeconfig.CacheConfig
	MessagesConfig  = runtimeconfig.MessagesConfig
	SecurityConfig  = runtimeconfig.SecurityConfig
	StateConfig     = runtimeconfig.StateConfig
	ComponentConfig = registry.Config
)

// DefaultConfig returns the baseline configuration hosts amend with identity
// and component overrides before calling New.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// IsConfigurationError reports whether err stems from component registration
// or descriptor validation problems.
func IsConfigurationError(err error) bool {
	return registry.IsConfigurationError(err)
}
