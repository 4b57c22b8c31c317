// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"sync"
	"testing"

	"github.com/mia-platform/logfacade/pkg/facade"
)

var _ facade.Appender = &FakeAppender{}

// FakeAppender records every event it receives and optionally fails or runs a hook.
type FakeAppender struct {
	facade.Base
	tb testing.TB

	// Err is returned by every Log call when set.
	Err error
	// OnLog runs inside Log after the event has been recorded.
	OnLog func(ctx context.Context, event facade.Event)
	// Config is the configuration received from the registry.
	Config *facade.Config

	lock   sync.Mutex
	events []facade.Event
}

// NewFakeAppender returns a FakeAppender registered under name.
func NewFakeAppender(tb testing.TB, name string) *FakeAppender {
	tb.Helper()
	return &FakeAppender{
		Base: facade.NewBase(name),
		tb:   tb,
	}
}

// Factory returns a facade.Factory always producing f and recording the config it receives.
func (f *FakeAppender) Factory() facade.Factory {
	return func(config *facade.Config) facade.Appender {
		f.Config = config
		return f
	}
}

func (f *FakeAppender) Log(ctx context.Context, event facade.Event) error {
	f.tb.Helper()

	f.lock.Lock()
	f.events = append(f.events, event)
	f.lock.Unlock()

	if f.OnLog != nil {
		f.OnLog(ctx, event)
	}
	return f.Err
}

// Events returns a copy of the recorded events.
func (f *FakeAppender) Events() []facade.Event {
	f.lock.Lock()
	defer f.lock.Unlock()

	events := make([]facade.Event, len(f.events))
	copy(events, f.events)
	return events
}

var _ facade.Appender = &PanicAppender{}

// PanicAppender panics with Value on every Log call.
type PanicAppender struct {
	facade.Base
	Value any
}

// NewPanicAppender returns a PanicAppender registered under name.
func NewPanicAppender(tb testing.TB, name string, value any) *PanicAppender {
	tb.Helper()
	return &PanicAppender{
		Base:  facade.NewBase(name),
		Value: value,
	}
}

func (p *PanicAppender) Log(context.Context, facade.Event) error {
	panic(p.Value)
}
