// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// The steward command is the operator CLI for a steward container. It
// diagnoses the converged environment (doctor), re-runs individual
// reconciliations outside a full boot (config render, vault init), and
// inspects what is in place (config show, vault tree, skill list).
//
// The full convergence itself belongs to steward-init, which runs as
// the container entrypoint; this CLI never execs courier.
package main
