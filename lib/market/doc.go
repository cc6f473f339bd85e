// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package market fetches cryptocurrency market data from the CoinGecko
// public REST API for the daily digest.
//
// Three endpoints are used: global market statistics, trending search
// coins, and the top coins by market capitalization. None of them
// require an API key. Responses are decoded into flat typed structs
// carrying exactly the fields the briefing renders; CoinGecko's
// nested envelope shapes stay inside this package.
//
// The digest degrades gracefully when an endpoint is down, so every
// method returns a descriptive error and the caller decides whether
// to render the section as unavailable or abort.
package market
