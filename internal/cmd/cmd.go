// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	emitCmdUsageTemplate = "emit [%s] MESSAGE"
	emitCmdShort         = "dispatch a single log event to the configured appenders"
	emitCmdLong          = `Dispatch a single log event to the configured appenders.
	The appenders to enable are read from the configuration file and from the
	--appender flag; when none is set the console appender is used.

	The debug level goes through the framework provider and is printed at the
	info level only while the global debug flag is enabled.`

	emitCmdExample = `# Print a warning on the console
	logfacade emit warn "disk almost full"

	# Ship an error with its source location using a configuration file
	logfacade emit error "unexpected token" --url app.js --line 42 -c logfacade.yaml`

	serveCmdShort = "receive log events over HTTP and dispatch them to the configured appenders"
	serveCmdLong  = `Start an HTTP server accepting log events on POST /logs.
	Every received event is dispatched to the configured appenders. The server
	is configured with the HTTP_PORT, LOGGER_LEVEL and DISABLE_STARTUP_MESSAGE
	environment variables.`

	serveCmdExample = `# Receive events and count them in the exposed metrics
	logfacade serve -a console -a metrics`
)

// EmitCmd returns the Cobra command that dispatches a single event.
func EmitCmd() *cobra.Command {
	flags := &emitFlags{}
	allLevels := slices.Sorted(maps.Keys(emitLevels))
	cmd := &cobra.Command{
		Use:     fmt.Sprintf(emitCmdUsageTemplate, strings.Join(allLevels, "|")),
		Short:   heredoc.Doc(emitCmdShort),
		Long:    heredoc.Doc(emitCmdLong),
		Example: heredoc.Doc(emitCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: validArgsFunc(emitLevels),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.toOptions(cmd, args)
			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ServeCmd returns the Cobra command that starts the ingest server.
func ServeCmd() *cobra.Command {
	flags := &appenderFlags{}
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toServeOptions(cmd)
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
