// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package appender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mia-platform/logfacade/internal/appender/console"
	"github.com/mia-platform/logfacade/internal/appender/metrics"
	"github.com/mia-platform/logfacade/internal/appender/remote"
	"github.com/mia-platform/logfacade/internal/appender/writer"
	"github.com/mia-platform/logfacade/pkg/facade"
)

var (
	// ErrUnknownAppender is returned for names missing from Available.
	ErrUnknownAppender = errors.New("unknown appender")

	// Available holds the appenders that can be enabled by name and their description
	// for command completion and help messages.
	Available = map[string]string{
		console.Name: "structured console output",
		writer.Name:  "plain text lines on stdout",
		remote.Name:  "ship events to an HTTP endpoint",
		metrics.Name: "count events in Prometheus metrics",
	}
)

// Dependencies bundles what the appenders need besides the shared facade.Config.
type Dependencies struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Registerer prometheus.Registerer
}

// Factory returns the factory of the appender called name. The remote appender is
// built eagerly against config so that its configuration errors are reported here
// instead of being silently rejected by the registry.
func Factory(ctx context.Context, name string, config *facade.Config, deps Dependencies) (facade.Factory, error) {
	switch name {
	case console.Name:
		return console.Factory(writerOrDefault(deps.Stderr, os.Stderr)), nil
	case writer.Name:
		return writer.Factory(writerOrDefault(deps.Stdout, os.Stdout)), nil
	case metrics.Name:
		registerer := deps.Registerer
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}
		return metrics.Factory(registerer), nil
	case remote.Name:
		appender, err := remote.New(ctx, config)
		if err != nil {
			return nil, err
		}
		return func(*facade.Config) facade.Appender { return appender }, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAppender, name)
	}
}

// Register adds every named appender to lc, stopping at the first invalid one.
func Register(ctx context.Context, lc *facade.LoggingContext, names []string, deps Dependencies) error {
	for _, name := range names {
		factory, err := Factory(ctx, name, lc.Config(), deps)
		if err != nil {
			return err
		}
		lc.AddAppender(factory)
	}
	return nil
}

func writerOrDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
