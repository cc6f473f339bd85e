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

// defaultOpenAIBaseURL is the public OpenAI API root.
const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAI implements [Provider] for the OpenAI Chat Completions API.
// Any vendor that speaks the same wire format (Azure OpenAI,
// OpenRouter, vLLM, Ollama) works with a BaseURL override.
type OpenAI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// OpenAIConfig configures an [OpenAI] provider.
type OpenAIConfig struct {
	// APIKey is the API key. Required.
	APIKey string

	// BaseURL overrides the API root. Defaults to the public
	// endpoint.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// NewOpenAI creates an OpenAI-compatible provider.
func NewOpenAI(config OpenAIConfig) *OpenAI {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAI{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name implements [Provider].
func (provider *OpenAI) Name() string { return "openai" }

func (provider *OpenAI) headers() http.Header {
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+provider.apiKey)
	return headers
}

// Complete implements [Provider] via POST /v1/chat/completions. The
// system prompt becomes the first message with role "system".
func (provider *OpenAI) Complete(ctx context.Context, request Request) (*Response, error) {
	wireRequest := openaiRequest{
		Model:     request.Model,
		MaxTokens: request.MaxTokens,
	}
	if request.System != "" {
		wireRequest.Messages = append(wireRequest.Messages, openaiMessage{
			Role:    "system",
			Content: request.System,
		})
	}
	wireRequest.Messages = append(wireRequest.Messages, openaiMessage{
		Role:    "user",
		Content: request.Prompt,
	})

	httpResponse, err := doProviderRequest(ctx, provider.httpClient,
		provider.baseURL+"/v1/chat/completions", wireRequest, provider.Name(), provider.headers())
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	var wireResponse openaiResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wireResponse); err != nil {
		return nil, fmt.Errorf("llm/openai: decoding response: %w", err)
	}
	return wireResponse.toResponse(), nil
}

// Ping implements [Provider] via GET /v1/models.
func (provider *OpenAI) Ping(ctx context.Context) error {
	return pingModels(ctx, provider.httpClient,
		provider.baseURL+"/v1/models", provider.Name(), provider.headers())
}

// --- OpenAI wire types ---

type openaiRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens,omitempty"`
	Messages  []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

func (wireResponse *openaiResponse) toResponse() *Response {
	var text string
	if len(wireResponse.Choices) > 0 {
		text = strings.TrimSpace(wireResponse.Choices[0].Message.Content)
	}
	return &Response{
		Text:  text,
		Model: wireResponse.Model,
		Usage: Usage{
			InputTokens:  wireResponse.Usage.PromptTokens,
			OutputTokens: wireResponse.Usage.CompletionTokens,
		},
	}
}
