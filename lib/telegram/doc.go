// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package telegram is a minimal Bot API client for delivering digest
// messages.
//
// Only sendMessage is implemented. Messages longer than the Bot API's
// 4096-character limit are split at line boundaries and sent as
// consecutive messages. Flood-control rejections (HTTP 429) are
// retried once after the server's advertised retry_after delay.
//
// The bot token rides in the request URL, so transport errors are
// scrubbed before they propagate: the token never appears in logs or
// error chains.
package telegram
