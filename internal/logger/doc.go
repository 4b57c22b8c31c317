// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps hclog behind the Logger interface used for the diagnostic channel
// of the facade, the console appender and the ingest server.
// Loggers travel through context.Context with WithContext and FromContext.
package logger
