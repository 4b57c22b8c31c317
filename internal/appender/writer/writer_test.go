// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package writer

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logfacade/pkg/facade"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestWriterAppender(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	now := time.Date(2024, 6, 1, 10, 30, 0, 123000000, time.UTC)
	lc := facade.New(facade.WithClock(func() time.Time { return now }))
	lc.Config().Set(Name, "prefix", "app ")
	lc.AddAppender(Factory(buffer))

	lc.Info("service started")
	lc.ErrorAt("query failed", "db.go", 88)

	expectedOutput := `app 2024-06-01T10:30:00.123Z [INFO] service started
app 2024-06-01T10:30:00.123Z [ERROR] query failed (db.go:88)
`
	assert.Equal(t, expectedOutput, buffer.String())
}

func TestWriterAppenderFailure(t *testing.T) {
	t.Parallel()

	appender := Factory(failingWriter{})(nil)
	require.Equal(t, Name, appender.Name())
	require.Error(t, appender.Log(t.Context(), facade.Event{Level: facade.INFO, Message: "lost"}))
}
