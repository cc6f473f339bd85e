// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for steward
// binaries. It centralizes the one legitimate raw I/O pattern that
// exists before the structured logger: fatal error reporting to stderr
// followed by process exit.
//
// All other output from steward-init and steward-digest goes through
// log/slog; human-facing command output belongs to the steward CLI.
package process
