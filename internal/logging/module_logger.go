package logging

import (
	"context"

	"github.com/goliatone/go-appkit/pkg/interfaces"
)

const (
	rootModule      = "app"
	registryModule  = "app.registry"
	lifecycleModule = "app.lifecycle"
	localeModule    = "app.locale"
	securityModule  = "app.security"
	stateModule     = "app.state"
	messagesModule  = "app.messages"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RegistryLogger returns the logger namespace reserved for the component registry.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// LifecycleLogger returns the logger namespace reserved for lifecycle transitions.
func LifecycleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lifecycleModule)
}

// LocaleLogger returns the logger namespace reserved for locale resolution.
func LocaleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localeModule)
}

// SecurityLogger returns the logger namespace reserved for the security manager.
func SecurityLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, securityModule)
}

// StateLogger returns the logger namespace reserved for the state persister.
func StateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, stateModule)
}

// MessagesLogger returns the logger namespace reserved for message sources.
func MessagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, messagesModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
