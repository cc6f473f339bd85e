// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bureau-foundation/steward/lib/clock"
	"github.com/bureau-foundation/steward/lib/netutil"
)

const (
	// MaxMessageLength is the Bot API limit on message text.
	MaxMessageLength = 4096

	defaultBaseURL = "https://api.telegram.org"

	// defaultTimeout bounds each sendMessage call.
	defaultTimeout = 30 * time.Second
)

// Client talks to the Telegram Bot API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	clock      clock.Clock
}

// Config configures a Client.
type Config struct {
	// Token is the bot token. Required.
	Token string

	// BaseURL overrides the API root (tests).
	BaseURL string

	// HTTPClient overrides the default client. The default carries
	// the package timeout.
	HTTPClient *http.Client

	// Clock paces the flood-control retry. Nil means the real clock.
	Clock clock.Clock
}

// NewClient returns a Bot API client.
func NewClient(config Config) (*Client, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("telegram: bot token is required")
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	tick := config.Clock
	if tick == nil {
		tick = clock.Real()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		clock:      tick,
	}, nil
}

// APIError is a Bot API rejection ({"ok": false, ...}).
type APIError struct {
	// Code is the Bot API error_code (mirrors HTTP status).
	Code int

	// Description is the API's human-readable reason.
	Description string

	// RetryAfter is the flood-control backoff from
	// parameters.retry_after; zero when the API gave none.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: API error %d: %s", e.Code, e.Description)
}

// SendMessage delivers text to the chat, splitting anything over
// MaxMessageLength into consecutive messages at line boundaries.
// Chunks send in order; the first failure aborts the remainder.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		if err := c.sendChunk(ctx, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// sendChunk posts one message, honoring a single flood-control
// retry_after delay before giving up.
func (c *Client) sendChunk(ctx context.Context, chatID int64, text string) error {
	err := c.postSendMessage(ctx, chatID, text)
	var apiError *APIError
	if errors.As(err, &apiError) && apiError.Code == http.StatusTooManyRequests && apiError.RetryAfter > 0 {
		select {
		case <-c.clock.After(apiError.RetryAfter):
		case <-ctx.Done():
			return ctx.Err()
		}
		return c.postSendMessage(ctx, chatID, text)
	}
	return err
}

func (c *Client) postSendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(struct {
		ChatID                int64  `json:"chat_id"`
		Text                  string `json:"text"`
		DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	}{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("telegram: encoding request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bot"+c.token+"/sendMessage", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: building request: %s", c.scrub(err))
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		// Transport errors embed the request URL, and the URL
		// carries the bot token.
		return fmt.Errorf("telegram: sending message: %s", c.scrub(err))
	}
	defer response.Body.Close()

	var result struct {
		OK          bool   `json:"ok"`
		ErrorCode   int    `json:"error_code"`
		Description string `json:"description"`
		Parameters  struct {
			RetryAfter int `json:"retry_after"`
		} `json:"parameters"`
	}
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return fmt.Errorf("telegram: decoding response (HTTP %d): %w", response.StatusCode, err)
	}
	if !result.OK {
		return &APIError{
			Code:        result.ErrorCode,
			Description: result.Description,
			RetryAfter:  time.Duration(result.Parameters.RetryAfter) * time.Second,
		}
	}
	return nil
}

func (c *Client) scrub(err error) string {
	return strings.ReplaceAll(err.Error(), c.token, "***")
}
