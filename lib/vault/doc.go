// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package vault reconciles the on-volume vault tree: the structured
// notes hierarchy the agent works in, plus the agent config home that
// points into it.
//
// Everything here follows one presence rule. Directories are created
// whenever missing and never deleted. Seed documents are written only
// when nothing exists at their path; whatever content is found there is
// authoritative, even if it is empty or unrecognizable. The symlink
// from the agent home into the vault's skills directory is created only
// when the link path is entirely vacant. Nothing in this package ever
// overwrites or removes user data.
//
// Each reconciliation returns an Outcome saying whether it changed the
// filesystem. The bootstrap collects these into its receipt; applied
// file outcomes carry a BLAKE3 digest of the seeded content so a later
// inspection can tell a pristine seed from a user-edited file.
//
// Seed content is embedded at compile time and rendered through
// text/template where paths appear in the text.
package vault
