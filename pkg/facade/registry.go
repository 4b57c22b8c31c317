// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrNilFactory is returned when a nil Factory is added.
	ErrNilFactory = errors.New("nil appender factory")
	// ErrRejectedAppender is returned when a Factory does not produce an appender.
	ErrRejectedAppender = errors.New("appender rejected")
)

// Registry maps appender names to live appenders, preserving insertion order.
// Adding an appender under a name already in use replaces the previous instance
// in place.
type Registry struct {
	lock      sync.RWMutex
	appenders map[string]Appender
	order     []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		appenders: make(map[string]Appender),
	}
}

// Add builds an appender from factory, passing config, and stores it under its own name.
// The returned error explains a rejection; the registry is unchanged in that case.
func (r *Registry) Add(factory Factory, config *Config) (appender Appender, err error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			appender, err = nil, fmt.Errorf("%w: factory panicked: %v", ErrRejectedAppender, recovered)
		}
	}()

	appender = factory(config)
	if isNil(appender) {
		return nil, ErrRejectedAppender
	}

	name := appender.Name()

	r.lock.Lock()
	defer r.lock.Unlock()
	if _, found := r.appenders[name]; !found {
		r.order = append(r.order, name)
	}
	r.appenders[name] = appender
	return appender, nil
}

// Remove deletes the entry registered under ref's name, whatever instance it holds.
// It reports whether an entry was deleted.
func (r *Registry) Remove(ref Named) bool {
	if isNil(ref) {
		return false
	}

	name := ref.Name()

	r.lock.Lock()
	defer r.lock.Unlock()
	if _, found := r.appenders[name]; !found {
		return false
	}

	delete(r.appenders, name)
	r.order = slices.DeleteFunc(r.order, func(registered string) bool {
		return registered == name
	})
	return true
}

// Get returns the appender registered under name.
func (r *Registry) Get(name string) (Appender, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	appender, ok := r.appenders[name]
	return appender, ok
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return slices.Clone(r.order)
}

// Len returns the number of registered appenders.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.order)
}

// snapshot returns the registered appenders in insertion order.
func (r *Registry) snapshot() []Appender {
	r.lock.RLock()
	defer r.lock.RUnlock()

	appenders := make([]Appender, 0, len(r.order))
	for _, name := range r.order {
		appenders = append(appenders, r.appenders[name])
	}
	return appenders
}
