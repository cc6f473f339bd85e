// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// steward-digest assembles and delivers the morning crypto digest: it
// collects CoinGecko market data, merges the operator's topic
// watchlist, has a model provider condense the briefing, and sends the
// result to the configured Telegram chat.
//
// The bootstrap engine schedules it under cron with a restricted
// environment file; it can also be run by hand. --dry-run prints the
// digest to stdout instead of sending it, and a missing Telegram
// target degrades to the same behavior with a warning. A missing model
// provider key is fatal.
package main
