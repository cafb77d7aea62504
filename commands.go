package appkit

import (
	"context"

	"github.com/goliatone/go-appkit/internal/commands"
)

// CommandRegistry is the registration surface expected from go-command
// dispatchers and routers.
type CommandRegistry = commands.CommandRegistry

// CommandHandlerSet groups the kernel command handlers returned by
// RegisterCommands.
type CommandHandlerSet = commands.HandlerSet

// Kernel command messages, re-exported for hosts dispatching through
// go-command.
type (
	FlushStateCommand = commands.FlushStateCommand
	RotateKeysCommand = commands.RotateKeysCommand
)

// RegisterCommands wires the kernel command handlers (state flush, key
// rotation) against this application's components and registers them with
// reg. The state persister and security manager are constructed if they have
// not been resolved yet.
func (a *Application) RegisterCommands(ctx context.Context, reg CommandRegistry) (*CommandHandlerSet, error) {
	state, err := resolve[commands.StateFlusher](ctx, a, ComponentStatePersister)
	if err != nil {
		return nil, err
	}
	keys, err := resolve[commands.KeyRotator](ctx, a, ComponentSecurity)
	if err != nil {
		return nil, err
	}
	return commands.RegisterAppCommands(reg, state, keys, a.provider)
}
