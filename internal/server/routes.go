// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mia-platform/logfacade/pkg/facade"
)

const (
	ingestPath = "/logs"
)

var (
	errMissingLevel   = errors.New("missing level")
	errMissingMessage = errors.New("missing message")
)

// ingestRequest is the document accepted on the ingest route, the same produced by the
// remote appender.
type ingestRequest struct {
	ID         string        `json:"id,omitempty"`
	Level      *facade.Level `json:"level"`
	Message    string        `json:"message"`
	URL        string        `json:"url,omitempty"`
	LineNumber int           `json:"lineNumber,omitempty"`
}

func (r *ingestRequest) validate() error {
	if r.Level == nil {
		return errMissingLevel
	}
	if r.Message == "" {
		return errMissingMessage
	}
	return nil
}

// statusRoutes registers the health and metrics routes.
func statusRoutes(app *fiber.App, serviceName, version string, gatherer prometheus.Gatherer) {
	status := func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":  "OK",
			"name":    serviceName,
			"version": version,
		})
	}

	app.Get(statusPrefix+"healthz", status)
	app.Get(statusPrefix+"ready", status)
	app.Get(statusPrefix+"metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// ingestRoutes registers the route dispatching received events into lc.
func ingestRoutes(app *fiber.App, lc *facade.LoggingContext) {
	app.Post(ingestPath, func(c *fiber.Ctx) error {
		request := new(ingestRequest)
		if err := json.Unmarshal(c.Body(), request); err != nil {
			return badRequest(c, err)
		}
		if err := request.validate(); err != nil {
			return badRequest(c, err)
		}

		lc.Log(c.UserContext(), *request.Level, request.Message, request.URL, request.LineNumber)
		return c.SendStatus(http.StatusAccepted)
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"statusCode": http.StatusBadRequest,
		"error":      http.StatusText(http.StatusBadRequest),
		"message":    err.Error(),
	})
}
