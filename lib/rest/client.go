// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"

	"github.com/bureau-foundation/fbsession/lib/clock"
	"github.com/bureau-foundation/fbsession/lib/netutil"
)

// DefaultURL is the platform's REST endpoint.
const DefaultURL = "https://api.facebook.com/restserver.php"

// Config holds configuration for creating a REST Client.
type Config struct {
	// URL is the REST endpoint. Defaults to DefaultURL. Must use HTTPS
	// unless AllowInsecure is set.
	URL string

	// AllowInsecure permits a plain-HTTP URL. Only local fakes and
	// recorded-traffic replays should need it.
	AllowInsecure bool

	// HTTPClient is used for all requests. Defaults to a client with
	// a 30 second timeout.
	HTTPClient *http.Client

	// UserAgent is sent with every request. Defaults to "fbsession".
	UserAgent string

	// Clock provides time for call duration logging. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client posts signed parameter sets to the REST server and decodes
// the replies.
type Client struct {
	url        string
	httpClient *http.Client
	userAgent  string
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a REST client from the given configuration.
func NewClient(config Config) (*Client, error) {
	endpoint := config.URL
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if !strings.HasPrefix(endpoint, "https://") {
		if !config.AllowInsecure || !strings.HasPrefix(endpoint, "http://") {
			return nil, fmt.Errorf("rest: client requires HTTPS (got %q)", endpoint)
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "fbsession"
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url:        endpoint,
		httpClient: httpClient,
		userAgent:  userAgent,
		clock:      clk,
		logger:     logger,
	}, nil
}

// Post sends params (which must already carry their signature) and
// returns the decoded reply. Error documents come back as *APIError;
// failures below the protocol wrap ErrTransport.
func (client *Client) Post(ctx context.Context, params Params) (*Response, error) {
	requestID := uuid.NewString()
	method := params["method"]
	logger := client.logger.With("request_id", requestID, "method", method)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.url, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("rest: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept-Encoding", "gzip")
	request.Header.Set("User-Agent", client.userAgent)

	start := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.Debug("rest call failed", "error", err)
		return nil, fmt.Errorf("rest: POST %s: %w: %w", method, ErrTransport, err)
	}
	defer response.Body.Close()

	logger.Debug("rest call completed",
		"status", response.StatusCode,
		"duration", client.clock.Now().Sub(start),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: response.StatusCode,
			Body:       netutil.ErrorBody(response.Body),
		}
	}

	body, err := netutil.ReadBody(response)
	if err != nil {
		return nil, fmt.Errorf("rest: reading %s reply: %w: %w", method, ErrTransport, err)
	}

	decoded, err := decodeBody(response.Header.Get("Content-Type"), body)
	if err != nil {
		var apiError *APIError
		if errors.As(err, &apiError) && apiError.Method == "" {
			apiError.Method = method
		}
		return nil, err
	}
	return decoded, nil
}

// decodeBody dispatches on the reply's media type. The server labels
// JSON replies inconsistently (application/json, text/javascript), and
// some proxies strip the header entirely, so an unrecognized or
// missing type falls back to sniffing the first byte.
func decodeBody(contentType string, body []byte) (*Response, error) {
	if contentType != "" {
		mediaType := contenttype.NewMediaType(contentType)
		switch strings.ToLower(mediaType.Subtype) {
		case "xml":
			return decodeXML(body)
		case "json", "javascript":
			return decodeJSON(body)
		}
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '<' {
		return decodeXML(body)
	}
	return decodeJSON(body)
}
