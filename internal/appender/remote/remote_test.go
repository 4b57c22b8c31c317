// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logfacade/internal/info"
	"github.com/mia-platform/logfacade/pkg/facade"
)

type receivedRequest struct {
	headers http.Header
	body    map[string]any
}

// testServer records every log request and serves a client credentials token endpoint.
func testServer(t *testing.T, status int, response string) (*httptest.Server, func() []receivedRequest) {
	t.Helper()

	var lock sync.Mutex
	var received []receivedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == defaultAuthPath {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"client-token","token_type":"bearer","expires_in":3600}`)
			return
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		lock.Lock()
		received = append(received, receivedRequest{headers: r.Header.Clone(), body: body})
		lock.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)

	return server, func() []receivedRequest {
		lock.Lock()
		defer lock.Unlock()
		return append([]receivedRequest(nil), received...)
	}
}

func TestInitialization(t *testing.T) {
	t.Run("without endpoint", func(t *testing.T) {
		appender, err := New(t.Context(), facade.NewConfig())
		require.ErrorIs(t, err, ErrMissingEndpoint)
		assert.ErrorIs(t, err, &RemoteError{err: ErrMissingEndpoint})
		assert.Nil(t, appender)
	})

	t.Run("with env", func(t *testing.T) {
		t.Setenv("REMOTE_APPENDER_ENDPOINT", "http://localhost:8080/logs")
		t.Setenv("REMOTE_APPENDER_TOKEN", "token")
		t.Setenv("REMOTE_APPENDER_TIMEOUT", "2s")

		appender, err := New(t.Context(), facade.NewConfig())
		require.NoError(t, err)
		remote, ok := appender.(*remoteAppender)
		require.True(t, ok)

		assert.Equal(t, Name, remote.Name())
		assert.Equal(t, "http://localhost:8080/logs", remote.Endpoint)
		assert.Equal(t, "token", remote.Token)
		assert.Equal(t, 2*time.Second, remote.Timeout)
		assert.Equal(t, "http://localhost:8080/oauth/token", remote.AuthEndpoint)
	})

	t.Run("config section wins over env", func(t *testing.T) {
		t.Setenv("REMOTE_APPENDER_ENDPOINT", "http://localhost:8080/logs")
		t.Setenv("REMOTE_APPENDER_AUTH_ENDPOINT", "http://localhost:8081/custom/auth")

		config := facade.NewConfig()
		config.SetSection(Name, map[string]any{
			"endpoint": "http://collector:9000/ingest",
			"timeout":  "250ms",
		})

		appender, err := New(t.Context(), config)
		require.NoError(t, err)
		remote, ok := appender.(*remoteAppender)
		require.True(t, ok)

		assert.Equal(t, "http://collector:9000/ingest", remote.Endpoint)
		assert.Equal(t, 250*time.Millisecond, remote.Timeout)
		assert.Equal(t, "http://localhost:8081/custom/auth", remote.AuthEndpoint)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		config := facade.NewConfig()
		config.SetSection(Name, map[string]any{
			"endpoint": "http://collector:9000/ingest",
			"timeout":  "soon",
		})

		_, err := New(t.Context(), config)
		require.Error(t, err)
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv("REMOTE_APPENDER_TIMEOUT", "soon")

		_, err := New(t.Context(), facade.NewConfig())
		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
	})

	t.Run("misconfigured factory is rejected", func(t *testing.T) {
		lc := facade.New()
		lc.AddAppender(Factory(t.Context()))
		assert.Empty(t, lc.RegisteredAppenders())
	})
}

func TestShipEvents(t *testing.T) {
	t.Run("static token", func(t *testing.T) {
		server, received := testServer(t, http.StatusNoContent, "")
		t.Setenv("REMOTE_APPENDER_TOKEN", "static-token")

		lc := facade.New(facade.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }))
		lc.Config().Set(Name, "endpoint", server.URL+"/logs")
		lc.AddAppender(Factory(t.Context()))
		require.Equal(t, []string{Name}, lc.RegisteredAppenders())

		lc.ErrorAt("query failed", "db.go", 88)

		requests := received()
		require.Len(t, requests, 1)
		headers := requests[0].headers
		assert.Equal(t, "Bearer static-token", headers.Get("Authorization"))
		assert.Equal(t, "application/json", headers.Get("Content-Type"))
		assert.Equal(t, info.AppName+"/"+info.Version, headers.Get("User-Agent"))

		id, err := uuid.Parse(headers.Get(EventIDHeader))
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"id":         id.String(),
			"level":      "ERROR",
			"timestamp":  float64(1700000000000),
			"message":    "query failed",
			"url":        "db.go",
			"lineNumber": float64(88),
		}, requests[0].body)
	})

	t.Run("client credentials", func(t *testing.T) {
		server, received := testServer(t, http.StatusAccepted, "")
		t.Setenv("REMOTE_APPENDER_ENDPOINT", server.URL+"/logs")
		t.Setenv("REMOTE_APPENDER_CLIENT_ID", "client-id")
		t.Setenv("REMOTE_APPENDER_CLIENT_SECRET", "client-secret")

		appender, err := New(t.Context(), nil)
		require.NoError(t, err)
		require.NoError(t, appender.Log(t.Context(), facade.Event{Level: facade.INFO, Message: "hello"}))

		requests := received()
		require.Len(t, requests, 1)
		assert.Equal(t, "Bearer client-token", requests[0].headers.Get("Authorization"))
	})

	t.Run("error response", func(t *testing.T) {
		server, _ := testServer(t, http.StatusBadRequest, `{"message":"invalid payload"}`)
		t.Setenv("REMOTE_APPENDER_ENDPOINT", server.URL+"/logs")

		appender, err := New(t.Context(), nil)
		require.NoError(t, err)

		err = appender.Log(t.Context(), facade.Event{Level: facade.WARN, Message: "hello"})
		assert.EqualError(t, err, "remote: invalid payload")
	})

	t.Run("unexpected response", func(t *testing.T) {
		server, _ := testServer(t, http.StatusInternalServerError, "")
		t.Setenv("REMOTE_APPENDER_ENDPOINT", server.URL+"/logs")

		appender, err := New(t.Context(), nil)
		require.NoError(t, err)

		err = appender.Log(t.Context(), facade.Event{Level: facade.WARN, Message: "hello"})
		require.ErrorIs(t, err, errUnexpectedResponse)
	})
}
