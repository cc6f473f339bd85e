// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bureau-foundation/steward/cmd/steward/cli"
	"github.com/bureau-foundation/steward/lib/bootstrap"
	libvault "github.com/bureau-foundation/steward/lib/vault"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:    "init",
		Summary: "Create any missing vault structure",
		Description: `Run the vault scaffold against the tree the environment names:
directories, seed documents, the agent instructions document, and the
skills symlink. Existing nodes are skipped untouched, so init is safe
to repeat on a populated vault.`,
		Usage: "steward vault init",
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := bootstrap.FromEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()
			return runInit(os.Stdout, env.Tree())
		},
	}
}

// runInit scaffolds the tree and reports one line per node. Outcomes
// produced before a failure are still printed; the partial progress is
// real filesystem state.
func runInit(w io.Writer, tree libvault.Tree) error {
	outcomes, scaffoldErr := libvault.Scaffold(tree)

	applied, skipped := 0, 0
	writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, outcome := range outcomes {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", outcome.Action, outcome.Kind, outcome.Path)
		if outcome.Applied() {
			applied++
		} else {
			skipped++
		}
	}
	writer.Flush()

	if scaffoldErr != nil {
		return scaffoldErr
	}

	fmt.Fprintf(w, "\n%d applied, %d skipped\n", applied, skipped)
	return nil
}
