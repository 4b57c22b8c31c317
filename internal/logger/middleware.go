// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedHostHeaderKey = "x-forwarded-host"
	forwardedForHeaderKey  = "x-forwarded-for"
	userAgentHeaderKey     = "user-agent"
	RequestIDHeaderName    = "x-request-id"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// requestFields holds the request attributes logged for every request.
type requestFields struct {
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// hostFields holds the host information.
type hostFields struct {
	Hostname      string `json:"hostname,omitempty"`
	ForwardedHost string `json:"forwardedHost,omitempty"`
	IP            string `json:"ip,omitempty"`
}

// responseFields holds the response attributes logged once the request is completed.
type responseFields struct {
	StatusCode int `json:"statusCode,omitempty"`
	Bytes      int `json:"bytes"`
}

func removePort(host string) string {
	return strings.Split(host, ":")[0]
}

// requestID returns the id sent by the client or a new random one.
func requestID(c *fiber.Ctx) string {
	if id := c.Get(RequestIDHeaderName); id != "" {
		return id
	}

	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	id, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return id.String()
}

func requestAttributes(c *fiber.Ctx) []interface{} {
	return []interface{}{
		"request", requestFields{
			Method:    c.Method(),
			Path:      c.Path(),
			UserAgent: c.Get(userAgentHeaderKey),
		},
		"host", hostFields{
			ForwardedHost: c.Get(forwardedHostHeaderKey),
			Hostname:      removePort(c.Hostname()),
			IP:            c.Get(forwardedForHeaderKey),
		},
	}
}

// statusCode returns the status that fiber will send for handlerErr.
func statusCode(c *fiber.Ctx, handlerErr error) int {
	if fiberErr, ok := handlerErr.(*fiber.Error); ok {
		return fiberErr.Code
	}
	if handlerErr != nil {
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}

// RequestMiddlewareLogger is a fiber middleware to log all requests
// It logs the incoming request and when request is completed, adding latency of the request.
// Paths starting with one of excludedPrefix are not logged. The request id is echoed
// back in the response headers.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		start := time.Now()

		id := requestID(c)
		c.Set(RequestIDHeaderName, id)
		loggerWithReqID := logger.WithName(id)
		c.SetUserContext(WithContext(c.UserContext(), loggerWithReqID))

		loggerWithReqID.Trace(IncomingRequestMessage, requestAttributes(c)...)
		err := c.Next()

		attributes := append(requestAttributes(c),
			"response", responseFields{
				StatusCode: statusCode(c, err),
				Bytes:      len(c.Response().Body()),
			},
			"responseTime", float64(time.Since(start).Milliseconds()),
		)
		loggerWithReqID.Info(RequestCompletedMessage, attributes...)

		return err
	}
}
