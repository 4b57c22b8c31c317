// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultAuthPath = "/oauth/token"

// newTransport creates an HTTP transport configured with either a static token or a client-credentials flow.
func newTransport(ctx context.Context, tokenURL, clientID, clientSecret, token string) http.RoundTripper {
	var source oauth2.TokenSource
	switch {
	case len(clientID) > 0 && len(clientSecret) > 0:
		config := clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		source = config.TokenSource(ctx)
	case len(token) > 0:
		source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	}

	if source == nil {
		return http.DefaultTransport
	}

	return &oauth2.Transport{
		Source: source,
	}
}

// defaultAuthEndpoint derives the token endpoint from the host of the log endpoint.
func defaultAuthEndpoint(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return ""
	}

	return (&url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: defaultAuthPath}).String()
}
