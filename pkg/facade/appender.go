// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"context"
	"reflect"
)

// DefaultAppenderName is the name reported by a Base that was never given one.
const DefaultAppenderName = "BaseAppender"

// Named is anything exposing the name used as registry key.
type Named interface {
	Name() string
}

// Appender is a sink receiving every dispatched Event.
//
// The interface can only be satisfied by embedding Base, which carries the marker
// method proving that the type was written as an appender.
type Appender interface {
	Named

	// Log receives one event. Returning an error or panicking does not stop the
	// delivery to the other appenders; the failure is reported on the diagnostic logger.
	// ctx must be propagated when the appender logs through the facade itself.
	Log(ctx context.Context, event Event) error

	isAppender()
}

// Factory builds an appender from the shared Config. A Factory returning nil is
// rejected without error.
type Factory func(config *Config) Appender

// Base is the building block of every appender. Its Log method does nothing.
type Base struct {
	name string
}

// NewBase returns a Base registered under name.
func NewBase(name string) Base {
	return Base{name: name}
}

// Name returns the registry key of the appender.
func (b *Base) Name() string {
	if b.name == "" {
		return DefaultAppenderName
	}
	return b.name
}

// SetName changes the registry key used the next time the appender is added or removed.
func (b *Base) SetName(name string) {
	b.name = name
}

// Log implements Appender.
func (b *Base) Log(context.Context, Event) error {
	return nil
}

// ConfigOpt returns the value stored under key in the config section named after the
// appender when it is truthy, defaultValue otherwise.
func (b *Base) ConfigOpt(key string, config *Config, defaultValue any) any {
	return configOpt(b.Name(), key, config, defaultValue)
}

func (*Base) isAppender() {}

// Opt is the typed counterpart of Base.ConfigOpt: defaultValue is also returned when
// the stored value cannot be converted to T.
func Opt[T any](appender Named, key string, config *Config, defaultValue T) T {
	value, ok := configOpt(appender.Name(), key, config, defaultValue).(T)
	if !ok {
		return defaultValue
	}
	return value
}

func configOpt(name, key string, config *Config, defaultValue any) any {
	if config == nil {
		return defaultValue
	}

	if value, ok := config.Value(name, key); ok && truthy(value) {
		return value
	}
	return defaultValue
}

// isNil reports whether value is nil or an interface wrapping a nil pointer.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
