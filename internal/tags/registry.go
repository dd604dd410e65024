package tags

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/logfields"
	"git.home.luguber.info/inful/doccollect/internal/metrics"
	"git.home.luguber.info/inful/doccollect/internal/observability"
)

// Handler interprets the raw text following a tag marker and mutates the record.
//
// Handlers must not fail: malformed text degrades to partial field values.
type Handler interface {
	Handle(rec *docrecord.Record, tag, text string)
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(rec *docrecord.Record, tag, text string)

// Handle calls f(rec, tag, text).
func (f HandlerFunc) Handle(rec *docrecord.Record, tag, text string) {
	f(rec, tag, text)
}

// Registry maps tag names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithRecorder sets the metrics recorder used for dispatch counters.
func WithRecorder(r metrics.Recorder) Option {
	return func(reg *Registry) { reg.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(reg *Registry) {
		if l != nil {
			reg.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a handler for name.
// Returns an error if name is empty, h is nil or name is already registered.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return errors.ValidationError("tag name is required").Build()
	}
	if h == nil {
		return errors.ValidationError("cannot register nil tag handler").WithContext("tag", name).Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return errors.NewError(errors.CategoryValidation, "tag already registered").WithContext("tag", name).Build()
	}
	r.handlers[name] = h
	return nil
}

// MustRegister is Register for initialization code; it panics on error.
func (r *Registry) MustRegister(name string, h Handler) {
	if err := r.Register(name, h); err != nil {
		panic(err)
	}
}

// Unregister removes the handler for name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[name]; !ok {
		return errors.NotFoundError("tag not registered").WithContext("tag", name).Build()
	}
	delete(r.handlers, name)
	return nil
}

// Has reports whether a handler is registered for name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered tag names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tags.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers)
}

// Dispatch invokes the handler registered for tag. Unknown tags are ignored
// and Dispatch reports false; comment text routinely contains tag-like tokens
// that are not documentation tags.
func (r *Registry) Dispatch(rec *docrecord.Record, tag, text string) bool {
	return r.DispatchContext(context.Background(), rec, tag, text)
}

// DispatchContext is Dispatch with a context carrying logging attributes.
func (r *Registry) DispatchContext(ctx context.Context, rec *docrecord.Record, tag, text string) bool {
	r.mu.RLock()
	h, ok := r.handlers[tag]
	r.mu.RUnlock()

	ctx = observability.WithTag(ctx, tag)
	if !ok {
		r.recorder.IncTagDispatch(tag, metrics.DispatchIgnored)
		observability.DebugContext(ctx, r.logger, "Ignoring unknown tag")
		return false
	}

	if recovered := invoke(h, rec, tag, text); recovered != nil {
		r.recorder.IncTagDispatch(tag, metrics.DispatchRecovered)
		rec.Diagnose(tag, fmt.Sprintf("handler failed: %v", recovered))
		observability.WarnContext(ctx, r.logger, "Tag handler panicked", logfields.Error(fmt.Errorf("%v", recovered)))
		return true
	}
	r.recorder.IncTagDispatch(tag, metrics.DispatchHandled)
	return true
}

func invoke(h Handler, rec *docrecord.Record, tag, text string) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	h.Handle(rec, tag, text)
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the shared registry with the standard tags registered.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewStandardRegistry()
	})
	return defaultRegistry
}

// Dispatch dispatches through the default registry.
func Dispatch(rec *docrecord.Record, tag, text string) bool {
	return DefaultRegistry().Dispatch(rec, tag, text)
}
