// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// steward-init is the container entry point. It converges the
// environment toward the state described by the STEWARD_* environment
// variables (courier config, vault tree, credentials, skills, digest
// cron job, repository mirrors), writes the boot receipt, and then
// replaces itself with the courier chat bridge via exec so courier
// inherits PID 1 and signal handling.
//
// Any argument after the flag terminator is passed through to courier
// unchanged. --skip-exec runs the convergence sequence and exits
// instead, which is what CI and `steward doctor --fix` use.
package main
