// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bureau-foundation/steward/lib/netutil"
	"github.com/bureau-foundation/steward/lib/version"
)

const (
	defaultBaseURL = "https://api.coingecko.com"

	// defaultTimeout bounds each market data request. The digest
	// runs unattended under cron; a hung endpoint must not stall
	// the whole job.
	defaultTimeout = 15 * time.Second
)

// Client queries the CoinGecko REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config configures a Client. The zero value selects the public
// CoinGecko API with the default timeout.
type Config struct {
	// BaseURL overrides the API root (tests).
	BaseURL string

	// HTTPClient overrides the default client. The default carries
	// the package timeout.
	HTTPClient *http.Client
}

// NewClient returns a CoinGecko client.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// get fetches path and decodes the JSON response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", "steward/"+version.Short())

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("coingecko: GET %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, 300))
		return fmt.Errorf("coingecko: GET %s: HTTP %d: %s", path, response.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := netutil.DecodeResponse(response.Body, result); err != nil {
		return fmt.Errorf("coingecko: GET %s: %w", path, err)
	}
	return nil
}
