// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor implements "steward doctor": end-to-end diagnosis of
// the container environment steward-init converges. It checks the
// environment variables, the data volume, the boot receipt, the
// courier configuration, the vault tree, the skills link, the digest
// cron job, the cron daemon, and the external binaries, in that order.
//
// Checks run against the same desired state and reconciliation
// primitives the bootstrap uses, so a fix action is always "the same
// convergence, again" rather than a separate repair path. Presentation
// and fix execution live in cmd/steward/cli/doctor.
package doctor
