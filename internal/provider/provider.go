// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package provider adapts a facade.LoggingContext to the error/info/debug/log/warn
// surface expected by dependency injection containers and framework loggers.
package provider

import (
	"fmt"
	"strings"

	"github.com/mia-platform/logfacade/pkg/facade"
)

// Provider forwards framework log calls to a LoggingContext. Debug calls are logged at
// the INFO level only while the global debug flag is enabled.
//
// The plain methods render extra arguments as key=value pairs after the message; the At
// variants forward the source location positionally, as the host error hooks do.
type Provider struct {
	lc *facade.LoggingContext
}

// New returns a Provider for lc. The global debug flag is enabled when it was never set.
func New(lc *facade.LoggingContext) *Provider {
	if _, found := lc.Config().Value(facade.GlobalSection, facade.DebugKey); !found {
		lc.Config().Set(facade.GlobalSection, facade.DebugKey, true)
	}

	return &Provider{lc: lc}
}

// DebugEnabled reports whether Debug calls reach the appenders.
func (p *Provider) DebugEnabled() bool {
	return p.lc.Config().Enabled(facade.GlobalSection, facade.DebugKey)
}

// SetDebugEnabled toggles the global debug flag shared with the appenders.
func (p *Provider) SetDebugEnabled(enabled bool) *Provider {
	p.lc.Config().Set(facade.GlobalSection, facade.DebugKey, enabled)
	return p
}

// Error logs at the ERROR level.
func (p *Provider) Error(msg any, args ...any) {
	p.lc.Error(message(msg, args))
}

// ErrorAt logs at the ERROR level with the source location.
func (p *Provider) ErrorAt(msg any, url string, lineNumber int) {
	p.lc.ErrorAt(msg, url, lineNumber)
}

// Warn logs at the WARN level.
func (p *Provider) Warn(msg any, args ...any) {
	p.lc.Warn(message(msg, args))
}

// WarnAt logs at the WARN level with the source location.
func (p *Provider) WarnAt(msg any, url string, lineNumber int) {
	p.lc.WarnAt(msg, url, lineNumber)
}

// Info logs at the INFO level.
func (p *Provider) Info(msg any, args ...any) {
	p.lc.Info(message(msg, args))
}

// InfoAt logs at the INFO level with the source location.
func (p *Provider) InfoAt(msg any, url string, lineNumber int) {
	p.lc.InfoAt(msg, url, lineNumber)
}

// Log logs at the INFO level.
func (p *Provider) Log(msg any, args ...any) {
	p.lc.Info(message(msg, args))
}

// Debug logs at the INFO level when debug is enabled.
func (p *Provider) Debug(msg any, args ...any) {
	if !p.DebugEnabled() {
		return
	}
	p.lc.Info(message(msg, args))
}

// DebugAt logs at the INFO level with the source location when debug is enabled.
func (p *Provider) DebugAt(msg any, url string, lineNumber int) {
	if !p.DebugEnabled() {
		return
	}
	p.lc.InfoAt(msg, url, lineNumber)
}

// message keeps errors intact for the normalizer and renders the key/value pairs in
// args after the message otherwise.
func message(msg any, args []any) any {
	if len(args) == 0 {
		return msg
	}

	builder := new(strings.Builder)
	fmt.Fprint(builder, msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(builder, " %v=%v", args[i], args[i+1])
			continue
		}
		fmt.Fprintf(builder, " %v", args[i])
	}
	return builder.String()
}
