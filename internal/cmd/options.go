// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mia-platform/logfacade/internal/appender"
	"github.com/mia-platform/logfacade/internal/appender/console"
	"github.com/mia-platform/logfacade/internal/config"
	"github.com/mia-platform/logfacade/internal/logger"
	"github.com/mia-platform/logfacade/internal/provider"
	"github.com/mia-platform/logfacade/internal/server"
	"github.com/mia-platform/logfacade/pkg/facade"
)

const loggerLevelEnv = "LOGGER_LEVEL"

// appenderOptions holds what is needed to build a LoggingContext with its appenders.
type appenderOptions struct {
	configPath string
	appenders  []string
	deps       appender.Dependencies
}

// loggingContext builds a LoggingContext configured from the config file and registers
// the selected appenders. The appender flags win over the list in the file, and the
// console appender is used when both are empty.
func (o appenderOptions) loggingContext(ctx context.Context) (*facade.LoggingContext, error) {
	cfg := facade.NewConfig()
	names := o.appenders

	if o.configPath != "" {
		file, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}

		file.Apply(cfg)
		if len(names) == 0 {
			names = file.Appenders
		}
	}

	if len(names) == 0 {
		names = []string{console.Name}
	}

	lc := facade.New(
		facade.WithContext(ctx),
		facade.WithConfig(cfg),
		facade.WithDiagnostics(logger.FromContext(ctx)),
	)
	if err := appender.Register(ctx, lc, names, o.deps); err != nil {
		return nil, err
	}

	return lc, nil
}

// emitOptions holds the options set for the emit command.
type emitOptions struct {
	appenderOptions

	level   string
	message string
	url     string
	line    int
}

// validate validates the emit options and returns an error if something is wrong.
func (o *emitOptions) validate() error {
	if o.level == "" || o.message == "" {
		return errNoArguments
	}

	if _, ok := emitLevels[o.level]; !ok {
		return fmt.Errorf("%w: %s", errInvalidLevel, o.level)
	}

	return nil
}

// execute dispatches the event described by the options.
func (o *emitOptions) execute(ctx context.Context) error {
	lc, err := o.loggingContext(ctx)
	if err != nil {
		return err
	}
	defer lc.Recover()

	if o.level == debugLevel {
		provider.New(lc).DebugAt(o.message, o.url, o.line)
		return nil
	}

	level, ok := facade.LevelFromString(o.level)
	if !ok {
		return fmt.Errorf("%w: %s", errInvalidLevel, o.level)
	}

	lc.Log(ctx, level, o.message, o.url, o.line)
	return nil
}

// serveOptions holds the options set for the serve command.
type serveOptions struct {
	appenderOptions
}

// execute runs the ingest server until the context is cancelled or a termination
// signal is received.
func (o *serveOptions) execute(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverConfig, err := server.LoadServerConfig()
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if _, set := os.LookupEnv(loggerLevelEnv); set {
		log.SetLevel(logger.LevelFromString(serverConfig.LoggerLevel))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	o.deps.Registerer = registry

	lc, err := o.loggingContext(ctx)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(ctx, lc, registry)
	if err != nil {
		return err
	}

	srv.StartAsync(ctx)
	log.Info("server started", "port", serverConfig.HTTPPort, "appenders", lc.RegisteredAppenders())

	<-ctx.Done()
	log.Info("shutting down server")
	return srv.Stop()
}
