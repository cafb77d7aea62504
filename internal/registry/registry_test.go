package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

type countingComponent struct {
	id int
}

func countingFactory(counter *int) registry.Factory {
	return func(context.Context, interfaces.AppContext, registry.Config) (interfaces.Component, error) {
		*counter++
		return &countingComponent{id: *counter}, nil
	}
}

func TestGetMemoizesInstance(t *testing.T) {
	built := 0
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.counter": countingFactory(&built),
	}))
	reg.Set("counter", registry.Config{Type: "test.counter"})

	ctx := context.Background()
	first, err := reg.Get(ctx, "counter")
	if err != nil {
		t.Fatalf("first Get returned error: %v", err)
	}
	second, err := reg.Get(ctx, "counter")
	if err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}

	if first != second {
		t.Fatalf("expected memoized instance, got distinct values")
	}
	if built != 1 {
		t.Fatalf("expected exactly one construction, got %d", built)
	}
}

func TestGetUnregisteredComponent(t *testing.T) {
	reg := registry.New()

	_, err := reg.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for unregistered component")
	}
	if !registry.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGetUnknownType(t *testing.T) {
	reg := registry.New()
	reg.Set("ghost", registry.Config{Type: "test.unknown"})

	_, err := reg.Get(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for unknown component type")
	}
	if !registry.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSetOverwriteDiscardsMemoizedInstance(t *testing.T) {
	built := 0
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.counter": countingFactory(&built),
	}))
	reg.Set("counter", registry.Config{Type: "test.counter"})

	ctx := context.Background()
	first, err := reg.Get(ctx, "counter")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	reg.Set("counter", registry.Config{Type: "test.counter"})

	second, err := reg.Get(ctx, "counter")
	if err != nil {
		t.Fatalf("Get after overwrite returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected overwrite to discard memoized instance")
	}
	if built != 2 {
		t.Fatalf("expected two constructions, got %d", built)
	}
}

func TestSetManyMergesDescriptors(t *testing.T) {
	built := 0
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.counter": countingFactory(&built),
	}))
	reg.Set("a", registry.Config{Type: "test.counter"})
	reg.SetMany(map[string]registry.Config{
		"b": {Type: "test.counter"},
		"c": {Type: "test.counter"},
	})

	names := reg.Names()
	want := []string{"a", "b", "c"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected sorted names %v, got %v", want, names)
		}
	}
}

func TestPreloadConstructsInDeclaredOrder(t *testing.T) {
	var order []string
	factory := func(name string) registry.Factory {
		return func(context.Context, interfaces.AppContext, registry.Config) (interfaces.Component, error) {
			order = append(order, name)
			return &countingComponent{}, nil
		}
	}
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.first":  factory("first"),
		"test.second": factory("second"),
		"test.third":  factory("third"),
	}))
	reg.SetMany(map[string]registry.Config{
		"first":  {Type: "test.first"},
		"second": {Type: "test.second"},
		"third":  {Type: "test.third"},
	})

	if err := reg.Preload(context.Background(), []string{"third", "first", "second"}); err != nil {
		t.Fatalf("Preload returned error: %v", err)
	}

	want := []string{"third", "first", "second"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected preload order %v, got %v", want, order)
		}
	}
}

func TestPreloadAbortsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	built := 0
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.counter": countingFactory(&built),
		"test.failing": func(context.Context, interfaces.AppContext, registry.Config) (interfaces.Component, error) {
			return nil, boom
		},
	}))
	reg.SetMany(map[string]registry.Config{
		"ok":      {Type: "test.counter"},
		"broken":  {Type: "test.failing"},
		"skipped": {Type: "test.counter"},
	})

	err := reg.Preload(context.Background(), []string{"ok", "broken", "skipped"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected factory error to propagate, got %v", err)
	}
	if built != 1 {
		t.Fatalf("expected preload to abort before later components, built %d", built)
	}
}

type propertiesComponent struct {
	label string
}

func (p *propertiesComponent) ApplyProperties(props map[string]any) error {
	if label, ok := props["label"].(string); ok {
		p.label = label
	}
	return nil
}

func TestConstructAppliesProperties(t *testing.T) {
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.props": func(context.Context, interfaces.AppContext, registry.Config) (interfaces.Component, error) {
			return &propertiesComponent{}, nil
		},
	}))
	reg.Set("props", registry.Config{
		Type:       "test.props",
		Properties: map[string]any{"label": "configured"},
	})

	component, err := reg.Get(context.Background(), "props")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	typed := component.(*propertiesComponent)
	if typed.label != "configured" {
		t.Fatalf("expected property override applied, got %q", typed.label)
	}
}

func TestRegisterSchemaRejectsInvalidProperties(t *testing.T) {
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.props": func(context.Context, interfaces.AppContext, registry.Config) (interfaces.Component, error) {
			return &propertiesComponent{}, nil
		},
	}))
	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"label": map[string]any{"type": "string"},
		},
	}
	if err := reg.RegisterSchema("test.props", schema); err != nil {
		t.Fatalf("RegisterSchema returned error: %v", err)
	}

	reg.Set("bad", registry.Config{
		Type:       "test.props",
		Properties: map[string]any{"label": 42},
	})
	if _, err := reg.Get(context.Background(), "bad"); err == nil {
		t.Fatal("expected schema validation failure")
	} else if !registry.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	reg.Set("good", registry.Config{
		Type:       "test.props",
		Properties: map[string]any{"label": "ok"},
	})
	if _, err := reg.Get(context.Background(), "good"); err != nil {
		t.Fatalf("expected valid properties to pass schema, got %v", err)
	}
}

type closingComponent struct {
	name  string
	order *[]string
}

func (c *closingComponent) Close() error {
	*c.order = append(*c.order, c.name)
	return nil
}

func TestCloseReleasesInReverseConstructionOrder(t *testing.T) {
	var closed []string
	factory := func(name string) registry.Factory {
		return func(context.Context, interfaces.AppContext, registry.Config) (interfaces.Component, error) {
			return &closingComponent{name: name, order: &closed}, nil
		}
	}
	reg := registry.New(registry.WithFactories(map[string]registry.Factory{
		"test.a": factory("a"),
		"test.b": factory("b"),
	}))
	reg.SetMany(map[string]registry.Config{
		"a": {Type: "test.a"},
		"b": {Type: "test.b"},
	})

	ctx := context.Background()
	if _, err := reg.Get(ctx, "a"); err != nil {
		t.Fatalf("Get a returned error: %v", err)
	}
	if _, err := reg.Get(ctx, "b"); err != nil {
		t.Fatalf("Get b returned error: %v", err)
	}

	if err := reg.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if len(closed) != 2 || closed[0] != "b" || closed[1] != "a" {
		t.Fatalf("expected reverse close order [b a], got %v", closed)
	}
}

func TestSetInstanceSkipsFactoryTable(t *testing.T) {
	reg := registry.New()
	instance := &countingComponent{id: 7}
	reg.SetInstance("ready", instance)

	got, err := reg.Get(context.Background(), "ready")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != instance {
		t.Fatal("expected registered instance to be returned unchanged")
	}
}
