package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-appkit/internal/commands"
)

type stubRegistry struct {
	registered []any
	err        error
}

func (r *stubRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.registered = append(r.registered, handler)
	return nil
}

type stubFlusher struct {
	flushed int
	err     error
}

func (f *stubFlusher) Flush(context.Context) error {
	f.flushed++
	return f.err
}

type stubRotator struct {
	rotated int
	err     error
}

func (r *stubRotator) RotateKeys() error {
	r.rotated++
	return r.err
}

func TestRegisterAppCommandsRegistersHandlers(t *testing.T) {
	reg := &stubRegistry{}
	set, err := commands.RegisterAppCommands(reg, &stubFlusher{}, &stubRotator{}, nil)
	if err != nil {
		t.Fatalf("RegisterAppCommands returned error: %v", err)
	}
	if set.FlushState == nil || set.RotateKeys == nil {
		t.Fatal("expected both handlers in the set")
	}
	if len(reg.registered) != 2 {
		t.Fatalf("expected 2 registered handlers, got %d", len(reg.registered))
	}
}

func TestRegisterAppCommandsRequiresDependencies(t *testing.T) {
	if _, err := commands.RegisterAppCommands(nil, &stubFlusher{}, &stubRotator{}, nil); err == nil {
		t.Fatal("expected error for nil registry")
	}
	if _, err := commands.RegisterAppCommands(&stubRegistry{}, nil, &stubRotator{}, nil); err == nil {
		t.Fatal("expected error for nil state persister")
	}
	if _, err := commands.RegisterAppCommands(&stubRegistry{}, &stubFlusher{}, nil, nil); err == nil {
		t.Fatal("expected error for nil security manager")
	}
}

func TestFlushStateHandlerFlushesPersister(t *testing.T) {
	flusher := &stubFlusher{}
	set, err := commands.RegisterAppCommands(&stubRegistry{}, flusher, &stubRotator{}, nil)
	if err != nil {
		t.Fatalf("RegisterAppCommands returned error: %v", err)
	}

	if err := set.FlushState.Execute(context.Background(), commands.FlushStateCommand{Reason: "shutdown"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if flusher.flushed != 1 {
		t.Fatalf("expected one flush, got %d", flusher.flushed)
	}
}

func TestRotateKeysHandlerRequiresConfirmation(t *testing.T) {
	rotator := &stubRotator{}
	set, err := commands.RegisterAppCommands(&stubRegistry{}, &stubFlusher{}, rotator, nil)
	if err != nil {
		t.Fatalf("RegisterAppCommands returned error: %v", err)
	}
	ctx := context.Background()

	if err := set.RotateKeys.Execute(ctx, commands.RotateKeysCommand{}); err == nil {
		t.Fatal("expected validation error without confirmation")
	}
	if rotator.rotated != 0 {
		t.Fatalf("expected no rotation without confirmation, got %d", rotator.rotated)
	}

	if err := set.RotateKeys.Execute(ctx, commands.RotateKeysCommand{Confirm: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if rotator.rotated != 1 {
		t.Fatalf("expected one rotation, got %d", rotator.rotated)
	}
}

func TestHandlerWrapsExecutionErrors(t *testing.T) {
	boom := errors.New("flush failed")
	flusher := &stubFlusher{err: boom}
	set, err := commands.RegisterAppCommands(&stubRegistry{}, flusher, &stubRotator{}, nil)
	if err != nil {
		t.Fatalf("RegisterAppCommands returned error: %v", err)
	}

	execErr := set.FlushState.Execute(context.Background(), commands.FlushStateCommand{})
	if execErr == nil {
		t.Fatal("expected execution error to propagate")
	}
	if !errors.Is(execErr, boom) {
		t.Fatalf("expected wrapped error to match original, got %v", execErr)
	}
}

func TestFlushStateCommandValidatesReasonLength(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	cmd := commands.FlushStateCommand{Reason: string(long)}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected overly long reason to fail validation")
	}
}
