// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest assembles the morning market digest: the raw data
// briefing handed to a language model, the provider fallback chain
// that summarizes it, and the dated framing applied to whatever text
// ends up being sent.
//
// Every stage is pure text assembly. Fetching market data and
// delivering the result belong to the caller (cmd/steward-digest), so
// the pipeline is testable without network access.
package digest
