// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridgeconf materializes the courier bridge configuration
// file from the bootstrap desired state.
//
// courier reads a single TOML document (by default
// ~/.config/courier/courier.toml) selecting the engine and transport
// and configuring each. steward regenerates this file unconditionally
// on every container start: the environment is the source of truth,
// and the previous file has no authority. courier's own file watcher
// picks up the rewrite, which is what makes credential rotation across
// restarts work.
//
// Two value-hygiene rules matter here:
//
//   - Hosting UIs sometimes hand over values wrapped in literal quote
//     characters. One matched surrounding pair is stripped, since TOML
//     applies its own quoting.
//   - The Telegram chat id must serialize as a numeric literal, not a
//     quoted string; courier's schema validation rejects a string
//     there.
//
// Missing values degrade to documented placeholders rather than
// failing: the file is always syntactically valid TOML, and semantic
// validation is courier's job.
package bridgeconf
