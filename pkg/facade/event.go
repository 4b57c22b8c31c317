// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Event is the canonical record delivered to every appender during a single dispatch.
type Event struct {
	Level Level `json:"level"`
	// Timestamp is expressed in milliseconds since the Unix epoch.
	Timestamp  int64  `json:"timestamp"`
	Message    string `json:"message"`
	URL        string `json:"url,omitempty"`
	LineNumber int    `json:"lineNumber,omitempty"`
}

// Time returns the event timestamp as a time.Time.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// stacker is implemented by errors carrying an already rendered stack trace.
type stacker interface {
	Stack() string
}

// sourceLocator is implemented by errors that know where they were raised instead of
// carrying a stack trace.
type sourceLocator interface {
	SourceURL() string
	Line() int
}

// Normalize converts the arguments of a log call into an Event stamped with now.
// It never panics: malformed messages degrade to their best-effort text.
func Normalize(level Level, now time.Time, message any, url string, lineNumber int) Event {
	event := Event{
		Level:      level,
		Timestamp:  now.UnixMilli(),
		URL:        url,
		LineNumber: lineNumber,
	}

	switch msg := message.(type) {
	case nil:
	case string:
		event.Message = msg
	case error:
		event.Message, event.URL, event.LineNumber = errorMessage(msg, url, lineNumber)
	default:
		event.Message = fmt.Sprint(msg)
	}

	return event
}

// errorMessage derives the event text from err. A stack trace wins over source location
// fields; the short message is prepended only when the stack does not already contain it.
func errorMessage(err error, url string, lineNumber int) (message string, outURL string, outLine int) {
	short := fmt.Sprint(err)
	defer func() {
		if r := recover(); r != nil {
			message, outURL, outLine = short, url, lineNumber
		}
	}()

	if stack := stackText(err); stack != "" {
		if short != "" && !strings.Contains(stack, short) {
			return short + "\n" + stack, url, lineNumber
		}
		return stack, url, lineNumber
	}

	var located sourceLocator
	if errors.As(err, &located) {
		return short, located.SourceURL(), located.Line()
	}

	return short, url, lineNumber
}

func stackText(err error) string {
	var rendered stacker
	if errors.As(err, &rendered) {
		return rendered.Stack()
	}

	var traced stackTracer
	if errors.As(err, &traced) {
		if len(traced.StackTrace()) == 0 {
			return ""
		}
		return fmt.Sprintf("%+v", traced)
	}

	return ""
}
