// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Provider is the interface for model API backends. Implementations
// translate between the common types in this package and each
// vendor's wire format.
type Provider interface {
	// Name identifies the provider in logs and errors ("anthropic",
	// "openai").
	Name() string

	// Complete sends a request and blocks until the full response is
	// available.
	Complete(ctx context.Context, request Request) (*Response, error)

	// Ping makes the cheapest authenticated call the vendor offers
	// (listing models) and reports whether the key is usable. A bad
	// key surfaces as a *ProviderError with status 401.
	Ping(ctx context.Context) error
}

// Request is a one-shot completion request.
type Request struct {
	// Model is the vendor model identifier.
	Model string

	// MaxTokens caps the response length.
	MaxTokens int

	// System is the system prompt. Optional.
	System string

	// Prompt is the user message.
	Prompt string
}

// Response is the completed result.
type Response struct {
	// Text is the full response text. Multiple content blocks are
	// joined with newlines.
	Text string

	// Model is the model that actually served the request.
	Model string

	// Usage is the token accounting reported by the vendor.
	Usage Usage
}

// Usage is the token accounting for one request.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// ProviderError is returned when a model API responds with an error.
type ProviderError struct {
	// Provider is the provider name.
	Provider string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Type is the vendor-specific error type string (e.g.,
	// "authentication_error", "rate_limit_error").
	Type string

	// Message is the human-readable error description.
	Message string
}

func (err *ProviderError) Error() string {
	if err.Type != "" {
		return fmt.Sprintf("llm/%s: HTTP %d: %s: %s", err.Provider, err.StatusCode, err.Type, err.Message)
	}
	return fmt.Sprintf("llm/%s: HTTP %d: %s", err.Provider, err.StatusCode, err.Message)
}

// IsAuthentication reports whether the error means the key itself was
// rejected.
func (err *ProviderError) IsAuthentication() bool {
	return err.StatusCode == 401 || err.StatusCode == 403
}

// IsRateLimited reports whether the error is a rate limit response.
func (err *ProviderError) IsRateLimited() bool {
	return err.StatusCode == 429
}

// doProviderRequest marshals wireRequest as JSON and POSTs it to
// endpoint. headers are applied on top of Content-Type, carrying the
// vendor's authentication. Non-200 status codes come back as
// *ProviderError.
//
// On success the caller is responsible for closing the response body.
func doProviderRequest(ctx context.Context, httpClient *http.Client, endpoint string, wireRequest any, provider string, headers http.Header) (*http.Response, error) {
	body, err := json.Marshal(wireRequest)
	if err != nil {
		return nil, fmt.Errorf("llm/%s: marshaling request: %w", provider, err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm/%s: creating request: %w", provider, err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}

	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("llm/%s: sending request: %w", provider, err)
	}

	if httpResponse.StatusCode != http.StatusOK {
		defer httpResponse.Body.Close()
		return nil, readProviderError(httpResponse, provider)
	}

	return httpResponse, nil
}

// pingModels GETs the vendor's model-list endpoint with the given
// auth headers. Listing models is free on both vendors and requires a
// valid key, which makes it the canonical key check.
func pingModels(ctx context.Context, httpClient *http.Client, endpoint string, provider string, headers http.Header) error {
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("llm/%s: creating request: %w", provider, err)
	}
	for key, values := range headers {
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}

	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("llm/%s: sending request: %w", provider, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return readProviderError(httpResponse, provider)
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(httpResponse.Body, 1<<20))
	return nil
}

// readProviderError parses an error response body in the common
// provider error format used by Anthropic, OpenAI, and compatible
// APIs: {"error":{"type":"...","message":"..."}}. Extra fields in the
// error object are silently ignored.
func readProviderError(httpResponse *http.Response, provider string) error {
	body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))

	var wireError struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		return &ProviderError{
			Provider:   provider,
			StatusCode: httpResponse.StatusCode,
			Type:       wireError.Error.Type,
			Message:    wireError.Error.Message,
		}
	}

	return &ProviderError{
		Provider:   provider,
		StatusCode: httpResponse.StatusCode,
		Message:    string(body),
	}
}
