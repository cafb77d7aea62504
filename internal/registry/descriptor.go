package registry

import (
	"context"
	"sync"

	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// Config is a component configuration descriptor: a type name resolving to a
// factory, plus property overrides applied after construction.
type Config struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Factory constructs a component instance from its descriptor. Factories are
// statically typed per component kind; the descriptor Type is only a lookup
// key into the factory table.
type Factory func(ctx context.Context, app interfaces.AppContext, cfg Config) (interfaces.Component, error)

// Configurable components receive descriptor property overrides after
// construction and before Init.
type Configurable interface {
	ApplyProperties(props map[string]any) error
}

type slotState uint8

const (
	slotUnconstructed slotState = iota
	slotConstructed
)

// slot is the state-tagged variant behind each registered name: it starts as
// configuration and is swapped to the constructed instance exactly once. The
// mutex serializes the construct-and-memoize step for concurrent first access.
type slot struct {
	mu       sync.Mutex
	state    slotState
	config   Config
	instance interfaces.Component
}

func newConfigSlot(cfg Config) *slot {
	return &slot{state: slotUnconstructed, config: cfg}
}

func newInstanceSlot(instance interfaces.Component) *slot {
	return &slot{state: slotConstructed, instance: instance}
}
