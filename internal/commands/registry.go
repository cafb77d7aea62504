package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers, matching go-command registries.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// KeyRotator is the security manager surface the rotate-keys handler needs.
type KeyRotator interface {
	RotateKeys() error
}

// StateFlusher is the state persister surface the flush handler needs.
type StateFlusher interface {
	Flush(ctx context.Context) error
}

// HandlerSet groups the kernel command handlers produced by
// RegisterAppCommands.
type HandlerSet struct {
	FlushState *Handler[FlushStateCommand]
	RotateKeys *Handler[RotateKeysCommand]
}

// RegisterAppCommands builds the kernel command handlers and registers them
// with the provided registry. The returned HandlerSet lets callers wire
// additional integrations (dispatcher, cron) as needed.
func RegisterAppCommands(reg CommandRegistry, state StateFlusher, keys KeyRotator, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if reg == nil {
		return nil, errors.New("app command registration: registry is nil")
	}
	if state == nil {
		return nil, errors.New("app command registration: state persister is nil")
	}
	if keys == nil {
		return nil, errors.New("app command registration: security manager is nil")
	}

	logger := logging.ModuleLogger(provider, "app.commands")

	set := &HandlerSet{
		FlushState: NewHandler(func(ctx context.Context, cmd FlushStateCommand) error {
			if cmd.Reason != "" {
				logger.Debug("flushing state", "reason", cmd.Reason)
			}
			return state.Flush(ctx)
		}, WithLogger[FlushStateCommand](logger), WithOperation[FlushStateCommand]("state.flush")),

		RotateKeys: NewHandler(func(ctx context.Context, cmd RotateKeysCommand) error {
			return keys.RotateKeys()
		}, WithLogger[RotateKeysCommand](logger), WithOperation[RotateKeysCommand]("security.rotate_keys")),
	}

	if err := reg.RegisterCommand(set.FlushState); err != nil {
		return nil, err
	}
	if err := reg.RegisterCommand(set.RotateKeys); err != nil {
		return nil, err
	}
	return set, nil
}
