// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package console

import (
	"context"
	"io"

	"github.com/mia-platform/logfacade/internal/logger"
	"github.com/mia-platform/logfacade/pkg/facade"
)

const (
	// Name is the registry key of the console appender.
	Name = "console"

	formatOption = "format"
	colorOption  = "color"
	levelOption  = "level"
	moduleOption = "module"

	textFormat = "text"
)

var _ facade.Appender = &consoleAppender{}

// consoleAppender prints events through an hclog backed logger.
type consoleAppender struct {
	facade.Base

	log logger.Logger
}

// Factory returns a facade.Factory building console appenders writing on writer.
// The "console" config section accepts format (json or text), color, level and module.
func Factory(writer io.Writer) facade.Factory {
	return func(config *facade.Config) facade.Appender {
		appender := &consoleAppender{Base: facade.NewBase(Name)}
		appender.log = logger.NewLoggerWithOptions(writer, logger.Options{
			Name:  facade.Opt(appender, moduleOption, config, ""),
			Text:  facade.Opt(appender, formatOption, config, "json") == textFormat,
			Color: facade.Opt(appender, colorOption, config, false),
			Level: logger.LevelFromString(facade.Opt(appender, levelOption, config, logger.INFO.String())),
		})
		return appender
	}
}

// Log implements facade.Appender.
func (a *consoleAppender) Log(_ context.Context, event facade.Event) error {
	args := []interface{}{"eventTime", event.Timestamp}
	if event.URL != "" {
		args = append(args, "url", event.URL)
	}
	if event.LineNumber != 0 {
		args = append(args, "lineNumber", event.LineNumber)
	}

	switch event.Level {
	case facade.EXCEPTION:
		a.log.Error(event.Message, append(args, "exception", true)...)
	case facade.ERROR:
		a.log.Error(event.Message, args...)
	case facade.WARN:
		a.log.Warn(event.Message, args...)
	default:
		a.log.Info(event.Message, args...)
	}
	return nil
}
