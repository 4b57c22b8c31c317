// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mia-platform/logfacade/pkg/facade"
)

const (
	// Name is the registry key of the metrics appender.
	Name = "metrics"

	namespaceOption  = "namespace"
	defaultNamespace = "logfacade"
)

var _ facade.Appender = &metricsAppender{}

// metricsAppender counts dispatched events per level.
type metricsAppender struct {
	facade.Base

	events *prometheus.CounterVec
}

// Factory returns a facade.Factory building appenders that register their collectors on
// registerer. Building the appender twice against the same registerer reuses the
// already registered counter. The "metrics" config section accepts a namespace.
func Factory(registerer prometheus.Registerer) facade.Factory {
	return func(config *facade.Config) facade.Appender {
		appender := &metricsAppender{Base: facade.NewBase(Name)}
		events := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: facade.Opt(appender, namespaceOption, config, defaultNamespace),
			Name:      "events_total",
			Help:      "Total number of log events dispatched, by level.",
		}, []string{"level"})

		if err := registerer.Register(events); err != nil {
			var registered prometheus.AlreadyRegisteredError
			if !errors.As(err, &registered) {
				return nil
			}

			existing, ok := registered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil
			}
			events = existing
		}

		appender.events = events
		return appender
	}
}

// Log implements facade.Appender.
func (a *metricsAppender) Log(_ context.Context, event facade.Event) error {
	a.events.WithLabelValues(event.Level.String()).Inc()
	return nil
}
