// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/steward/cmd/steward/cli"
	"github.com/bureau-foundation/steward/lib/bootstrap"
	libskill "github.com/bureau-foundation/steward/lib/skill"
)

// Command returns the "steward skill" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "skill",
		Summary: "Inspect installed skills",
		Description: `Inspect the skills installed in the vault. A skill is a directory
under the vault's skills tree with a SKILL.md manifest; the agent
runtime discovers them through the skills symlink in its config home.`,
		Usage: "steward skill <subcommand> [flags]",
		Subcommands: []*cli.Command{
			listCommand(),
		},
	}
}

func listCommand() *cli.Command {
	var jsonOut bool

	return &cli.Command{
		Name:    "list",
		Summary: "List installed skills",
		Description: `List every skill in the vault with its declared name and description,
read from the SKILL.md frontmatter. Directories without a manifest are
not skills and do not appear.`,
		Usage: "steward skill list [flags]",
		Examples: []cli.Example{
			{
				Description: "List installed skills",
				Command:     "steward skill list",
			},
			{
				Description: "Machine-readable output",
				Command:     "steward skill list --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.BoolVar(&jsonOut, "json", false, "emit skills as JSON")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			env, err := bootstrap.FromEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			skills, err := libskill.List(env.SkillsDir())
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("no skills directory at %s; run \"steward vault init\"", env.SkillsDir())
				}
				return err
			}

			if jsonOut {
				return cli.WriteJSON(skills)
			}
			renderSkills(os.Stdout, skills)
			return nil
		},
	}
}

func renderSkills(w io.Writer, skills []libskill.Skill) {
	if len(skills) == 0 {
		fmt.Fprintln(w, "no skills installed (set STEWARD_SKILL_BUNDLE_URL or drop one into the vault's skills directory)")
		return
	}

	writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "NAME\tDIRECTORY\tDESCRIPTION")
	for _, installed := range skills {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", installed.Name, installed.Directory, installed.Description)
	}
	writer.Flush()
}
