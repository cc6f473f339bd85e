// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package llm provides a provider-agnostic interface for the model
// APIs the digest and the bootstrap touch.
//
// The abstraction is [Provider]: one-shot blocking completion plus a
// cheap authenticated [Provider.Ping] used to validate keys at
// bootstrap. There is no streaming and no tool use; the digest is a
// single request for a single block of text.
//
// Provider implementations hold their API key and talk to the vendor
// endpoint directly over HTTPS:
//   - [Anthropic]: Claude models via the Messages API (/v1/messages)
//   - [OpenAI]: the Chat Completions wire format
//     (/v1/chat/completions), which several other vendors also speak
//
// Errors from the APIs are surfaced as [*ProviderError] with the
// provider name, HTTP status, and the vendor's error type and message.
package llm
