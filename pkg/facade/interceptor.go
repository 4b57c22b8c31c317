// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"slices"
	"sync"
)

// ErrorHandler is a hook receiving uncaught errors with their optional source location.
type ErrorHandler func(message any, url string, lineNumber int)

// ErrorSink fans an uncaught error out to its subscribers, in subscription order.
type ErrorSink struct {
	lock        sync.RWMutex
	subscribers []ErrorHandler
}

// NewErrorSink returns a sink calling the non nil handlers in the given order.
func NewErrorSink(handlers ...ErrorHandler) *ErrorSink {
	sink := new(ErrorSink)
	for _, handler := range handlers {
		sink.Subscribe(handler)
	}
	return sink
}

// Subscribe appends handler to the subscribers. A nil handler is ignored.
func (s *ErrorSink) Subscribe(handler ErrorHandler) {
	if handler == nil {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.subscribers = append(s.subscribers, handler)
}

// Handle calls every subscriber with the same arguments. A panicking subscriber is not
// recovered and stops the remaining ones.
func (s *ErrorSink) Handle(message any, url string, lineNumber int) {
	s.lock.RLock()
	subscribers := slices.Clone(s.subscribers)
	s.lock.RUnlock()

	for _, subscriber := range subscribers {
		subscriber(message, url, lineNumber)
	}
}
