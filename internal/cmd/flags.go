// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logfacade/internal/appender"
)

const (
	configPathFlagName  = "config"
	configPathFlagShort = "c"
	configPathFlagUsage = "Path to a YAML file holding the appenders to enable and their configuration sections"

	appenderFlagName  = "appender"
	appenderFlagShort = "a"
	appenderFlagUsage = "Name of an appender to enable. Can be specified multiple times and replaces the list in the configuration file"

	urlFlagName  = "url"
	urlFlagUsage = "Source url attached to the event"

	lineFlagName  = "line"
	lineFlagUsage = "Source line number attached to the event"
)

// appenderFlags collects the CLI options shared by the emit and serve commands.
type appenderFlags struct {
	configPath string
	appenders  []string
}

// addFlags registers the CLI flags on cmd.
func (f *appenderFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configPathFlagName, configPathFlagShort, "", configPathFlagUsage)
	cmd.Flags().StringArrayVarP(&f.appenders, appenderFlagName, appenderFlagShort, nil, appenderFlagUsage)
	_ = cmd.RegisterFlagCompletionFunc(appenderFlagName, validArgsFunc(appender.Available))
}

// toAppenderOptions builds the shared options, writing on the command outputs.
func (f *appenderFlags) toAppenderOptions(cmd *cobra.Command) appenderOptions {
	return appenderOptions{
		configPath: f.configPath,
		appenders:  f.appenders,
		deps: appender.Dependencies{
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		},
	}
}

func (f *appenderFlags) toServeOptions(cmd *cobra.Command) *serveOptions {
	return &serveOptions{appenderOptions: f.toAppenderOptions(cmd)}
}

// emitFlags holds the flags for the emit command.
type emitFlags struct {
	appenderFlags

	url  string
	line int
}

// addFlags registers the CLI flags on cmd.
func (f *emitFlags) addFlags(cmd *cobra.Command) {
	f.appenderFlags.addFlags(cmd)
	cmd.Flags().StringVar(&f.url, urlFlagName, "", urlFlagUsage)
	cmd.Flags().IntVar(&f.line, lineFlagName, 0, lineFlagUsage)
}

// toOptions builds an emitOptions instance from the parsed flags and CLI arguments.
func (f *emitFlags) toOptions(cmd *cobra.Command, args []string) *emitOptions {
	opts := &emitOptions{
		appenderOptions: f.toAppenderOptions(cmd),
		url:             f.url,
		line:            f.line,
	}

	if len(args) > 0 {
		opts.level = strings.ToLower(args[0])
	}
	if len(args) > 1 {
		opts.message = strings.Join(args[1:], " ")
	}
	return opts
}
