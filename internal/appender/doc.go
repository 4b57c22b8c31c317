// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package appender collects the appender implementations shipped with logfacade and
// the lookup table used by the command line to register them by name.
package appender
