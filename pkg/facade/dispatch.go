// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"context"
	"errors"
	"fmt"

	"github.com/mia-platform/logfacade/internal/logger"
)

const (
	// MaxDispatchDepth bounds how many dispatches can be nested when appenders log
	// through the facade from their own Log method.
	MaxDispatchDepth = 8

	dispatcherLoggerName = "logfacade:dispatcher"
)

// ErrRecursionLimit is returned when a nested dispatch exceeds MaxDispatchDepth.
var ErrRecursionLimit = errors.New("dispatch recursion limit reached")

// AppenderError reports the failure of a single appender during a dispatch.
type AppenderError struct {
	Name string
	Err  error
}

func (e *AppenderError) Error() string {
	return "appender " + e.Name + ": " + e.Err.Error()
}

func (e *AppenderError) Unwrap() error {
	return e.Err
}

// Dispatcher delivers events to the appenders of a Registry.
type Dispatcher struct {
	registry *Registry
	log      logger.Logger
}

// NewDispatcher returns a Dispatcher reporting appender failures on log.
func NewDispatcher(registry *Registry, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNullLogger()
	}

	return &Dispatcher{
		registry: registry,
		log:      log.WithName(dispatcherLoggerName),
	}
}

// Dispatch delivers event to every appender registered when the call starts, in
// registration order. Appenders added or removed while the dispatch runs are only seen
// by the next one. Failures are isolated per appender and returned joined.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	if ctx == nil {
		ctx = context.Background()
	}

	depth := dispatchDepth(ctx)
	if depth >= MaxDispatchDepth {
		d.log.Warn("dropping nested log event", "depth", depth, "level", event.Level.String())
		return ErrRecursionLimit
	}
	ctx = context.WithValue(ctx, depthKey, depth+1)

	var errs []error
	for _, appender := range d.registry.snapshot() {
		if err := deliver(ctx, appender, event); err != nil {
			d.log.Error("appender failed to log event", "appender", appender.Name(), "level", event.Level.String(), "error", err)
			errs = append(errs, &AppenderError{Name: appender.Name(), Err: err})
		}
	}

	return errors.Join(errs...)
}

// deliver calls appender.Log turning a panic into an error.
func deliver(ctx context.Context, appender Appender, event Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()

	return appender.Log(ctx, event)
}

// Unexported new type so that our context key never collides with another.
type depthKeyType struct{}

// depthKey is the key used for the context to store the dispatch depth.
var depthKey = depthKeyType{}

func dispatchDepth(ctx context.Context) int {
	if ctx == nil {
		return 0
	}

	depth, _ := ctx.Value(depthKey).(int)
	return depth
}
