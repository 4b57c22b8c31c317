// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mia-platform/logfacade/internal/logger"
)

const (
	// Version of the facade, also reserved as plugin key.
	Version = "1.2.1"

	contextLoggerName = "logfacade"
)

// Option configures a LoggingContext.
type Option func(*LoggingContext)

// WithDiagnostics sets the logger receiving the facade own failures. It is never one of
// the registered appenders.
func WithDiagnostics(log logger.Logger) Option {
	return func(lc *LoggingContext) {
		if log != nil {
			lc.log = log
		}
	}
}

// WithPriorErrorHandler sets the uncaught-error handler that was in place before the
// facade; it is chained after the EXCEPTION dispatch.
func WithPriorErrorHandler(handler ErrorHandler) Option {
	return func(lc *LoggingContext) {
		lc.priorHandler = handler
	}
}

// WithClock overrides the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(lc *LoggingContext) {
		if now != nil {
			lc.now = now
		}
	}
}

// WithContext sets the context handed to appenders by the methods without a ctx argument.
func WithContext(ctx context.Context) Option {
	return func(lc *LoggingContext) {
		if ctx != nil {
			lc.ctx = ctx
		}
	}
}

// WithConfig makes the LoggingContext share an existing Config.
func WithConfig(config *Config) Option {
	return func(lc *LoggingContext) {
		if config != nil {
			lc.config = config
		}
	}
}

// LoggingContext owns the appender registry, the shared Config and the uncaught-error
// sink. Every LoggingContext is independent from the others.
type LoggingContext struct {
	ctx          context.Context
	config       *Config
	registry     *Registry
	dispatcher   *Dispatcher
	sink         *ErrorSink
	priorHandler ErrorHandler
	log          logger.Logger
	now          func() time.Time

	// detachedDepth counts the dispatches in progress started without a caller ctx.
	detachedDepth atomic.Int32

	pluginsLock sync.RWMutex
	plugins     map[string]fmt.Stringer
}

// New builds a LoggingContext and installs its uncaught-error interceptor in front of
// the prior handler, if any.
func New(opts ...Option) *LoggingContext {
	lc := &LoggingContext{
		ctx:     context.Background(),
		log:     logger.NewNullLogger(),
		now:     time.Now,
		plugins: make(map[string]fmt.Stringer),
	}

	for _, opt := range opts {
		opt(lc)
	}

	if lc.config == nil {
		lc.config = NewConfig()
	}
	lc.log = lc.log.WithName(contextLoggerName)
	lc.registry = NewRegistry()
	lc.dispatcher = NewDispatcher(lc.registry, lc.log)
	lc.sink = NewErrorSink(lc.intercept, lc.priorHandler)

	return lc
}

// Config returns the shared configuration handed to appender factories.
func (lc *LoggingContext) Config() *Config {
	return lc.config
}

// Error logs message at the ERROR level.
func (lc *LoggingContext) Error(message any) {
	lc.logDetached(ERROR, message, "", 0)
}

// ErrorAt logs message at the ERROR level with its source location.
func (lc *LoggingContext) ErrorAt(message any, url string, lineNumber int) {
	lc.logDetached(ERROR, message, url, lineNumber)
}

// ErrorContext logs message at the ERROR level handing ctx to the appenders.
func (lc *LoggingContext) ErrorContext(ctx context.Context, message any) {
	lc.Log(ctx, ERROR, message, "", 0)
}

// Warn logs message at the WARN level.
func (lc *LoggingContext) Warn(message any) {
	lc.logDetached(WARN, message, "", 0)
}

// WarnAt logs message at the WARN level with its source location.
func (lc *LoggingContext) WarnAt(message any, url string, lineNumber int) {
	lc.logDetached(WARN, message, url, lineNumber)
}

// WarnContext logs message at the WARN level handing ctx to the appenders.
func (lc *LoggingContext) WarnContext(ctx context.Context, message any) {
	lc.Log(ctx, WARN, message, "", 0)
}

// Info logs message at the INFO level.
func (lc *LoggingContext) Info(message any) {
	lc.logDetached(INFO, message, "", 0)
}

// InfoAt logs message at the INFO level with its source location.
func (lc *LoggingContext) InfoAt(message any, url string, lineNumber int) {
	lc.logDetached(INFO, message, url, lineNumber)
}

// InfoContext logs message at the INFO level handing ctx to the appenders.
func (lc *LoggingContext) InfoContext(ctx context.Context, message any) {
	lc.Log(ctx, INFO, message, "", 0)
}

// Log normalizes the arguments into an Event and dispatches it. Appenders logging from
// their own Log method should call it with the ctx they received; a nil ctx behaves like
// the methods without one.
func (lc *LoggingContext) Log(ctx context.Context, level Level, message any, url string, lineNumber int) {
	if ctx == nil {
		lc.logDetached(level, message, url, lineNumber)
		return
	}

	lc.dispatch(ctx, level, message, url, lineNumber)
}

// logDetached dispatches with the LoggingContext ctx. The nesting depth cannot travel in
// that ctx, so it is counted on the LoggingContext and bounded by MaxDispatchDepth.
// The counter is shared by every goroutine using the methods without a ctx argument.
func (lc *LoggingContext) logDetached(level Level, message any, url string, lineNumber int) {
	depth := lc.detachedDepth.Add(1)
	defer lc.detachedDepth.Add(-1)

	if depth > MaxDispatchDepth {
		lc.log.Warn("dropping nested log event", "depth", depth, "level", level.String())
		return
	}

	lc.dispatch(lc.ctx, level, message, url, lineNumber)
}

func (lc *LoggingContext) dispatch(ctx context.Context, level Level, message any, url string, lineNumber int) {
	event := Normalize(level, lc.now(), message, url, lineNumber)
	_ = lc.dispatcher.Dispatch(ctx, event)
}

// AddAppender builds an appender from factory with the shared Config and registers it
// under its name, replacing any appender with the same name. A nil factory, or one
// producing no appender, leaves the registry untouched.
func (lc *LoggingContext) AddAppender(factory Factory) {
	appender, err := lc.registry.Add(factory, lc.config)
	if err != nil {
		lc.log.Debug("appender not registered", "error", err)
		return
	}
	lc.log.Trace("appender registered", "appender", appender.Name())
}

// RemoveAppender unregisters the appender with the same name as ref.
func (lc *LoggingContext) RemoveAppender(ref Named) {
	if lc.registry.Remove(ref) {
		lc.log.Trace("appender removed", "appender", ref.Name())
	}
}

// GetAppender returns the appender registered under name.
func (lc *LoggingContext) GetAppender(name string) (Appender, bool) {
	return lc.registry.Get(name)
}

// RegisteredAppenders returns the names of the registered appenders in registration order.
func (lc *LoggingContext) RegisteredAppenders() []string {
	return lc.registry.Names()
}

// Uncaught is the hook the host calls for errors nobody handled. The error is dispatched
// as an EXCEPTION event, then handed to the prior handler.
func (lc *LoggingContext) Uncaught(message any, url string, lineNumber int) {
	lc.sink.Handle(message, url, lineNumber)
}

// Recover must be deferred. It reports a panic through Uncaught with the location of
// the panicking frame and panics again with the same value.
func (lc *LoggingContext) Recover() {
	recovered := recover()
	if recovered == nil {
		return
	}

	file, line := panicLocation()
	lc.Uncaught(recovered, file, line)
	panic(recovered)
}

// intercept is the first subscriber of the error sink; it never panics.
func (lc *LoggingContext) intercept(message any, url string, lineNumber int) {
	defer func() {
		if recovered := recover(); recovered != nil {
			lc.log.Error("uncaught error interception failed", "error", recovered)
		}
	}()

	lc.logDetached(EXCEPTION, message, url, lineNumber)
}

// panicLocation returns the first frame outside the runtime above the deferred call.
func panicLocation() (string, int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			return frame.File, frame.Line
		}
		if !more {
			return "", 0
		}
	}
}
