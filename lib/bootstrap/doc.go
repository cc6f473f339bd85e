// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap sequences the container bring-up: render the
// courier config, scaffold the vault, provision credentials, install
// skills, schedule the digest job, and mirror the configured
// repositories. The sequence is strictly linear and single-pass;
// steward-init runs it once and then execs courier.
//
// DesiredState is the environment parsed once at startup; it is the
// only configuration source. Every step converges filesystem state
// toward it without ever clobbering user-authored content, so a
// restart against a populated volume is always safe.
//
// The Receipt records what each run applied versus skipped. It is
// advisory state for the doctor command, never read by the bootstrap
// itself.
package bootstrap
