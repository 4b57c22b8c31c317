// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logfacade/internal/appender"
	"github.com/mia-platform/logfacade/internal/config"
)

const debugLevel = "debug"

var (
	errNoArguments  = errors.New("no level or message provided")
	errInvalidLevel = errors.New("invalid level provided")

	// emitLevels holds the levels accepted by the emit command and their description
	// for command completion and help messages.
	emitLevels = map[string]string{
		"error":    "application errors",
		"warn":     "warnings",
		"info":     "informational messages",
		debugLevel: "debug messages, printed only when debug is enabled",
	}
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoArguments):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidLevel), errors.Is(err, appender.ErrUnknownAppender):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	case errors.Is(err, config.ErrParsing):
		cmd.PrintErrln(unwrappedError(err))
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// unwrappedError returns the unwrapped error if available, otherwise it returns the original error.
func unwrappedError(err error) error {
	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		return unwrapped
	}

	return err
}

func validArgsFunc(values map[string]string) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var comps []string
		if len(args) == 0 {
			for name, description := range values {
				if strings.HasPrefix(name, toComplete) {
					comps = append(comps, cobra.CompletionWithDesc(name, description))
				}
			}
		}

		return comps, cobra.ShellCompDirectiveNoFileComp
	}
}
