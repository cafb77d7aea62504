package errorhandler

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// TypeName is the descriptor type key for the error handler component.
const TypeName = "appkit.errorHandler"

// Handler records errors surfaced during request processing and logs them
// through the application logger. It is preloaded first so construction
// failures in later components are captured.
type Handler struct {
	mu     sync.Mutex
	last   error
	count  int
	logger interfaces.Logger

	// discardDuplicates drops consecutive reports of the same error value.
	discardDuplicates bool
}

var (
	_ interfaces.ErrorHandler = (*Handler)(nil)
	_ registry.Configurable   = (*Handler)(nil)
)

// New constructs an error handler logging through the provided logger.
func New(logger interfaces.Logger) *Handler {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Handler{logger: logger}
}

// Factory builds the handler from its descriptor.
func Factory(_ context.Context, app interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	var logger interfaces.Logger
	if app != nil {
		logger = app.Logger("app.errors")
	}
	return New(logger), nil
}

// ApplyProperties implements registry.Configurable.
func (h *Handler) ApplyProperties(props map[string]any) error {
	if v, ok := props["discard_duplicates"].(bool); ok {
		h.discardDuplicates = v
	}
	return nil
}

// Handle records err and emits a log entry. Validation-category errors are
// logged as warnings since they indicate wiring problems rather than
// request-time faults.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	h.mu.Lock()
	if h.discardDuplicates && h.last != nil && h.last.Error() == err.Error() {
		h.mu.Unlock()
		return
	}
	h.last = err
	h.count++
	h.mu.Unlock()

	logger := h.logger.WithContext(ctx)
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		logger.Warn("configuration error", "error", err)
		return
	}
	logger.Error("request error", "error", err)
}

// Last returns the most recently handled error, or nil.
func (h *Handler) Last() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Count returns how many errors have been handled.
func (h *Handler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}
