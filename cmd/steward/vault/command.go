// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"github.com/bureau-foundation/steward/cmd/steward/cli"
)

// Command returns the "steward vault" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "vault",
		Summary: "Scaffold and inspect the vault tree",
		Description: `Work with the vault, the structured notes tree on the persistent
volume. init runs the same scaffold reconciliation steward-init
performs at boot: it creates what is missing and never touches what
exists. tree shows which parts of the canonical layout are in place.`,
		Usage: "steward vault <subcommand> [flags]",
		Subcommands: []*cli.Command{
			initCommand(),
			treeCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Create any missing vault structure",
				Command:     "steward vault init",
			},
			{
				Description: "See what is present and what is not",
				Command:     "steward vault tree",
			},
		},
	}
}
