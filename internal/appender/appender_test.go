// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package appender

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logfacade/internal/appender/remote"
	"github.com/mia-platform/logfacade/pkg/facade"
)

func TestRegister(t *testing.T) {
	t.Run("registers the requested appenders in order", func(t *testing.T) {
		stdout := new(bytes.Buffer)
		stderr := new(bytes.Buffer)
		lc := facade.New()

		err := Register(t.Context(), lc, []string{"writer", "console", "metrics"}, Dependencies{
			Stdout:     stdout,
			Stderr:     stderr,
			Registerer: prometheus.NewRegistry(),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"writer", "console", "metrics"}, lc.RegisteredAppenders())

		lc.Info("hello")
		assert.Contains(t, stdout.String(), "[INFO] hello")
		assert.Contains(t, stderr.String(), `"@message":"hello"`)
	})

	t.Run("unknown appender", func(t *testing.T) {
		lc := facade.New()
		err := Register(t.Context(), lc, []string{"writer", "dom"}, Dependencies{Stdout: new(bytes.Buffer)})
		require.ErrorIs(t, err, ErrUnknownAppender)
		assert.Equal(t, []string{"writer"}, lc.RegisteredAppenders())
	})

	t.Run("remote configuration errors are reported", func(t *testing.T) {
		lc := facade.New()
		err := Register(t.Context(), lc, []string{"remote"}, Dependencies{})
		require.ErrorIs(t, err, remote.ErrMissingEndpoint)
		assert.Empty(t, lc.RegisteredAppenders())
	})

	t.Run("remote configured from the shared config", func(t *testing.T) {
		lc := facade.New()
		lc.Config().Set(remote.Name, "endpoint", "http://localhost:8080/logs")
		err := Register(t.Context(), lc, []string{"remote"}, Dependencies{})
		require.NoError(t, err)
		assert.Equal(t, []string{"remote"}, lc.RegisteredAppenders())
	})

	t.Run("every available appender has a factory", func(t *testing.T) {
		config := facade.NewConfig()
		config.Set(remote.Name, "endpoint", "http://localhost:8080/logs")
		for name := range Available {
			factory, err := Factory(t.Context(), name, config, Dependencies{Registerer: prometheus.NewRegistry()})
			require.NoError(t, err, name)
			require.NotNil(t, factory, name)
		}
	})
}
