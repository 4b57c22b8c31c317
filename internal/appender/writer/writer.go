// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package writer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mia-platform/logfacade/pkg/facade"
)

const (
	// Name is the registry key of the writer appender.
	Name = "writer"

	prefixOption = "prefix"
)

var _ facade.Appender = &writerAppender{}

// writerAppender renders one plain text line per event.
type writerAppender struct {
	facade.Base

	writer io.Writer
	prefix string

	lock sync.Mutex
}

// Factory returns a facade.Factory building appenders that write on w. The "writer"
// config section accepts a prefix prepended to every line.
func Factory(w io.Writer) facade.Factory {
	return func(config *facade.Config) facade.Appender {
		appender := &writerAppender{
			Base:   facade.NewBase(Name),
			writer: w,
		}
		appender.prefix = facade.Opt(appender, prefixOption, config, "")
		return appender
	}
}

// Log implements facade.Appender.
func (a *writerAppender) Log(_ context.Context, event facade.Event) error {
	builder := new(strings.Builder)

	builder.WriteString(a.prefix)
	builder.WriteString(event.Time().UTC().Format(time.RFC3339Nano))
	builder.WriteString(" [" + event.Level.String() + "] ")
	builder.WriteString(event.Message)
	if event.URL != "" || event.LineNumber != 0 {
		fmt.Fprintf(builder, " (%s:%d)", event.URL, event.LineNumber)
	}
	builder.WriteString("\n")

	a.lock.Lock()
	defer a.lock.Unlock()
	_, err := io.WriteString(a.writer, builder.String())
	return err
}
