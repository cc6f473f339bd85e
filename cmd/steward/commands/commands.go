// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete steward CLI command tree. It
// exists apart from main so the tree is constructable in tests without
// a process boundary.
package commands

import (
	"fmt"

	"github.com/bureau-foundation/steward/cmd/steward/cli"
	configcmd "github.com/bureau-foundation/steward/cmd/steward/config"
	doctorcmd "github.com/bureau-foundation/steward/cmd/steward/doctor"
	skillcmd "github.com/bureau-foundation/steward/cmd/steward/skill"
	vaultcmd "github.com/bureau-foundation/steward/cmd/steward/vault"
	"github.com/bureau-foundation/steward/lib/version"
)

// Root builds and returns the complete steward CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "steward",
		Description: `steward: personal AI assistant container orchestration.

Converge a container toward its environment-declared state: the
courier configuration, the vault tree, installed skills, credentials,
and the scheduled digest. steward-init performs the full convergence
at boot; this CLI diagnoses and re-runs individual pieces.`,
		Subcommands: []*cli.Command{
			doctorcmd.Command(),
			configcmd.Command(),
			vaultcmd.Command(),
			skillcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("steward %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Diagnose the container (start here when lost)",
				Command:     "steward doctor",
			},
			{
				Description: "Repair what can be repaired",
				Command:     "steward doctor --fix",
			},
			{
				Description: "See which parts of the vault are in place",
				Command:     "steward vault tree",
			},
			{
				Description: "Rewrite courier.toml after rotating the bot token",
				Command:     "steward config render",
			},
		},
	}
}
