// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// anthropicVersion is the pinned Messages API version header. Pinning
// keeps the wire format stable as Anthropic evolves the API.
const anthropicVersion = "2023-06-01"

// defaultAnthropicBaseURL is the public Anthropic API root.
const defaultAnthropicBaseURL = "https://api.anthropic.com"

// Anthropic implements [Provider] for the Anthropic Messages API.
type Anthropic struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// AnthropicConfig configures an [Anthropic] provider.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. Required.
	APIKey string

	// BaseURL overrides the API root. Defaults to the public
	// endpoint.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient; give it a timeout when calling from a
	// scheduled job.
	HTTPClient *http.Client
}

// NewAnthropic creates an Anthropic provider.
func NewAnthropic(config AnthropicConfig) *Anthropic {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Anthropic{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name implements [Provider].
func (provider *Anthropic) Name() string { return "anthropic" }

// headers returns the authentication headers for every Anthropic
// request.
func (provider *Anthropic) headers() http.Header {
	headers := make(http.Header)
	headers.Set("x-api-key", provider.apiKey)
	headers.Set("anthropic-version", anthropicVersion)
	return headers
}

// Complete implements [Provider] via POST /v1/messages.
func (provider *Anthropic) Complete(ctx context.Context, request Request) (*Response, error) {
	wireRequest := anthropicRequest{
		Model:     request.Model,
		MaxTokens: request.MaxTokens,
		System:    request.System,
		Messages: []anthropicMessage{
			{Role: "user", Content: request.Prompt},
		},
	}

	httpResponse, err := doProviderRequest(ctx, provider.httpClient,
		provider.baseURL+"/v1/messages", wireRequest, provider.Name(), provider.headers())
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	var wireResponse anthropicResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wireResponse); err != nil {
		return nil, fmt.Errorf("llm/anthropic: decoding response: %w", err)
	}
	return wireResponse.toResponse(), nil
}

// Ping implements [Provider] via GET /v1/models.
func (provider *Anthropic) Ping(ctx context.Context) error {
	return pingModels(ctx, provider.httpClient,
		provider.baseURL+"/v1/models", provider.Name(), provider.headers())
}

// --- Anthropic wire types ---
//
// These map directly to the Messages API JSON format. The message
// content is sent in its string shorthand form; the response comes
// back as typed content blocks, of which only text blocks are kept.

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Model   string                  `json:"model"`
	Usage   anthropicUsage          `json:"usage"`
}

type anthropicUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

func (wireResponse *anthropicResponse) toResponse() *Response {
	var texts []string
	for _, block := range wireResponse.Content {
		if block.Type == "text" && block.Text != "" {
			texts = append(texts, block.Text)
		}
	}
	return &Response{
		Text:  strings.TrimSpace(strings.Join(texts, "\n")),
		Model: wireResponse.Model,
		Usage: Usage{
			InputTokens:  wireResponse.Usage.InputTokens,
			OutputTokens: wireResponse.Usage.OutputTokens,
		},
	}
}
