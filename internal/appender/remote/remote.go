// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"github.com/mia-platform/logfacade/internal/info"
	"github.com/mia-platform/logfacade/pkg/facade"
)

const (
	// Name is the registry key of the remote appender.
	Name = "remote"

	// EventIDHeader carries the unique id generated for every shipped event.
	EventIDHeader = "X-Event-Id"

	endpointOption = "endpoint"
	timeoutOption  = "timeout"

	defaultTimeout = 5 * time.Second
)

var (
	// ErrMissingEndpoint is returned when neither the config nor the environment set an endpoint.
	ErrMissingEndpoint = errors.New("missing endpoint")

	errUnexpectedResponse = errors.New("unexpected response")
)

var _ facade.Appender = &remoteAppender{}

// RemoteError wraps lower-level errors produced while shipping events.
type RemoteError struct {
	err error
}

func (e *RemoteError) Error() string {
	return "remote: " + e.err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.err
}

func (e *RemoteError) Is(target error) bool {
	re, ok := target.(*RemoteError)
	if !ok {
		return false
	}

	return e.err.Error() == re.err.Error()
}

// remoteAppender ships every event as a JSON document to an HTTP endpoint.
type remoteAppender struct {
	facade.Base

	Endpoint     string        `env:"REMOTE_APPENDER_ENDPOINT"`
	Token        string        `env:"REMOTE_APPENDER_TOKEN"`
	ClientID     string        `env:"REMOTE_APPENDER_CLIENT_ID"`
	ClientSecret string        `env:"REMOTE_APPENDER_CLIENT_SECRET"`
	AuthEndpoint string        `env:"REMOTE_APPENDER_AUTH_ENDPOINT"`
	Timeout      time.Duration `env:"REMOTE_APPENDER_TIMEOUT" envDefault:"5s"`

	client *http.Client
}

// payload is the document posted for every event.
type payload struct {
	ID string `json:"id"`
	facade.Event
}

// New returns a remote appender configured from the environment, then from the "remote"
// config section which takes precedence for endpoint and timeout.
func New(ctx context.Context, config *facade.Config) (facade.Appender, error) {
	appender := &remoteAppender{Base: facade.NewBase(Name)}
	if err := env.Parse(appender); err != nil {
		return nil, handleError(err)
	}

	appender.Endpoint = facade.Opt(appender, endpointOption, config, appender.Endpoint)
	if appender.Endpoint == "" {
		return nil, handleError(ErrMissingEndpoint)
	}

	if timeout := facade.Opt(appender, timeoutOption, config, ""); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, handleError(fmt.Errorf("invalid %s option: %w", timeoutOption, err))
		}
		appender.Timeout = parsed
	}
	if appender.Timeout <= 0 {
		appender.Timeout = defaultTimeout
	}

	if appender.AuthEndpoint == "" {
		appender.AuthEndpoint = defaultAuthEndpoint(appender.Endpoint)
	}

	appender.client = &http.Client{
		Transport: newTransport(ctx, appender.AuthEndpoint, appender.ClientID, appender.ClientSecret, appender.Token),
	}
	return appender, nil
}

// Factory wraps New; a misconfigured appender is not registered.
func Factory(ctx context.Context) facade.Factory {
	return func(config *facade.Config) facade.Appender {
		appender, err := New(ctx, config)
		if err != nil {
			return nil
		}
		return appender
	}
}

// Log implements facade.Appender.
func (a *remoteAppender) Log(ctx context.Context, event facade.Event) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return handleError(err)
	}

	body, err := json.Marshal(payload{ID: id.String(), Event: event})
	if err != nil {
		return handleError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, bytes.NewReader(body))
	if err != nil {
		return handleError(err)
	}

	request.Header.Set("User-Agent", userAgentString())
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set(EventIDHeader, id.String())

	resp, err := a.client.Do(request)
	if err != nil {
		return handleError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var respBody map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&respBody); err == nil {
			if message, ok := respBody["message"].(string); ok {
				return handleError(errors.New(message))
			}
		}

		return handleError(fmt.Errorf("%w: %s", errUnexpectedResponse, resp.Status))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// userAgentString returns the User-Agent string to be used in HTTP requests.
func userAgentString() string {
	return info.AppName + "/" + info.Version
}

func handleError(err error) error {
	var parseErr env.AggregateError
	if errors.As(err, &parseErr) {
		err = parseErr.Errors[0]
	}

	return &RemoteError{
		err: err,
	}
}
