// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"maps"
	"math"
	"reflect"
	"sync"
)

const (
	// GlobalSection is the config section holding settings that are not owned by an appender.
	GlobalSection = "global"
	// DebugKey enables debug output in the global section.
	DebugKey = "debug"
)

// Config is the shared configuration handed to every appender at construction time.
// Values are grouped in sections keyed by appender name. A Config is mutated in place
// and never replaced for the lifetime of its LoggingContext.
type Config struct {
	lock     sync.RWMutex
	sections map[string]map[string]any
}

// NewConfig returns an empty Config.
func NewConfig() *Config {
	return &Config{
		sections: make(map[string]map[string]any),
	}
}

// Set stores value under key in section, creating the section if needed.
func (c *Config) Set(section, key string, value any) {
	c.lock.Lock()
	defer c.lock.Unlock()

	values, ok := c.sections[section]
	if !ok {
		values = make(map[string]any)
		c.sections[section] = values
	}
	values[key] = value
}

// SetSection replaces the whole section with a copy of values.
func (c *Config) SetSection(section string, values map[string]any) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.sections[section] = maps.Clone(values)
	if c.sections[section] == nil {
		c.sections[section] = make(map[string]any)
	}
}

// Merge copies every key of sections into the config, keeping keys that are not overwritten.
func (c *Config) Merge(sections map[string]map[string]any) {
	for section, values := range sections {
		for key, value := range values {
			c.Set(section, key, value)
		}
	}
}

// Section returns a copy of the named section.
func (c *Config) Section(section string) (map[string]any, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	values, ok := c.sections[section]
	if !ok {
		return nil, false
	}
	return maps.Clone(values), true
}

// Value returns the value stored under key in section.
func (c *Config) Value(section, key string) (any, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	values, ok := c.sections[section]
	if !ok {
		return nil, false
	}

	value, ok := values[key]
	return value, ok
}

// Enabled reports whether the value stored under key in section is truthy.
func (c *Config) Enabled(section, key string) bool {
	value, ok := c.Value(section, key)
	return ok && truthy(value)
}

// truthy mirrors the loose truthiness used for config lookups: nil, false, zero numbers
// and empty strings, slices and maps are all considered unset.
func truthy(value any) bool {
	if value == nil {
		return false
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !v.IsNil()
	default:
		return true
	}
}
