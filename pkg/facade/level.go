// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLevel is returned when parsing an unknown level.
var ErrInvalidLevel = errors.New("invalid level")

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

const (
	// EXCEPTION is reserved to uncaught errors and is not reachable from the public logging methods.
	EXCEPTION Level = iota
	ERROR
	WARN
	INFO
)

// LevelFromString parses the textual representation of a level, reporting false for unknown values.
func LevelFromString(level string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "EXCEPTION":
		return EXCEPTION, true
	case "ERROR":
		return ERROR, true
	case "WARN":
		return WARN, true
	case "INFO":
		return INFO, true
	default:
		return INFO, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	level, ok := LevelFromString(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, text)
	}

	*l = level
	return nil
}
