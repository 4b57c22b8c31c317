// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the ingest server of logfacade.
// It sets up the HTTP server using the Fiber framework, receives events shipped by
// remote appenders on POST /logs and dispatches them into a facade.LoggingContext.
// Health checks and Prometheus metrics are served under the /-/ prefix.
package server
