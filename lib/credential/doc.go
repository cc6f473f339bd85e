// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential validates the operator-supplied API credentials at
// boot and performs the side effects that depend on them.
//
// Provisioning is best effort: a rejected or absent credential produces
// a typed Result and a warning log with remediation guidance, never an
// error that stops the boot. The agent runtime is useful with any
// subset of integrations live, so the caller records the results and
// moves on.
//
// Three integrations are covered:
//
//   - GitHub: the token is validated with a GET /user handshake. On
//     success the global git identity is configured (user.name,
//     user.email using the GitHub noreply address, credential.helper
//     store) and the token is written to the git credential store so
//     that later pushes authenticate. A rejected token leaves git
//     configuration untouched.
//   - Anthropic and OpenAI: each present key is validated with a
//     cheap authenticated request. No side effects beyond the result.
//
// Secrets are held in mlocked secret.Buffer memory and never appear in
// results, logs, or errors.
package credential
