// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package facade is a pluggable logging facade.
//
// Application code emits leveled events through a LoggingContext; every registered
// Appender receives each event synchronously, in registration order. Appenders are
// built by the registry from a Factory that receives the shared, mutable Config, and
// are keyed by their own name.
//
// Uncaught errors reported through LoggingContext.Uncaught, or panics captured with a
// deferred LoggingContext.Recover, are dispatched as EXCEPTION events before being
// handed to the error handler that was installed before the facade.
package facade
