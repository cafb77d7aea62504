package urls

import (
	"context"
	"errors"
	"fmt"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// TypeName is the descriptor type key for the URL manager component.
const TypeName = "appkit.urlManager"

// Manager builds URLs from named route groups through a go-urlkit
// RouteManager. Group lookups are cached; urlkit panics on unknown groups so
// lookups are guarded.
type Manager struct {
	manager *urlkit.RouteManager

	mu     sync.RWMutex
	groups map[string]*urlkit.Group
}

// New constructs a manager from a urlkit configuration.
func New(cfg *urlkit.Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("urls: route configuration is required")
	}
	return &Manager{
		manager: urlkit.NewRouteManager(cfg),
		groups:  map[string]*urlkit.Group{},
	}, nil
}

// Factory builds the URL manager from descriptor properties carrying a
// urlkit configuration. The composition root normally registers a
// constructed instance from Config.URLs instead; this factory serves hosts
// that declare the component purely by descriptor.
func Factory(_ context.Context, _ interfaces.AppContext, cfg registry.Config) (interfaces.Component, error) {
	raw, ok := cfg.Properties["routes"].(*urlkit.Config)
	if !ok || raw == nil {
		return nil, errors.New("urls: route configuration missing, configure Config.URLs")
	}
	return New(raw)
}

// Build renders the URL for route in group with path parameters.
func (m *Manager) Build(group, route string, params map[string]string) (string, error) {
	g, err := m.group(group)
	if err != nil {
		return "", err
	}

	builder, err := safeBuilder(g, route)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}

// BuildWithQuery renders the URL for route in group with path parameters and
// query values.
func (m *Manager) BuildWithQuery(group, route string, params map[string]string, query map[string][]string) (string, error) {
	g, err := m.group(group)
	if err != nil {
		return "", err
	}

	builder, err := safeBuilder(g, route)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, values := range query {
		for _, v := range values {
			builder.WithQuery(key, v)
		}
	}
	return builder.Build()
}

func (m *Manager) group(name string) (*urlkit.Group, error) {
	m.mu.RLock()
	group, ok := m.groups[name]
	m.mu.RUnlock()
	if ok {
		return group, nil
	}

	group, err := lookupGroup(m.manager, name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.groups[name] = group
	m.mu.Unlock()
	return group, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
