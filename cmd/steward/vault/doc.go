// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package vault implements "steward vault": running the vault scaffold
// outside a full bootstrap and viewing the layout's presence state.
// Both subcommands operate on the same tree the bootstrap converges;
// init reports applied/skipped per node, tree renders a styled
// checklist of the canonical layout.
package vault
