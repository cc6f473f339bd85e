// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package github provides a small typed client for the GitHub REST
// API, scoped to what the bootstrap needs: validating a token by
// fetching the authenticated user, and building authenticated clone
// URLs for repository sync.
//
// Authentication is a static Bearer token (personal access token or
// fine-grained token). All requests are made over HTTPS; the client
// refuses non-HTTPS base URLs. The REST API version header is pinned
// for consistent behavior as GitHub evolves the API.
package github
