// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	_ "embed"
	"path/filepath"

	"github.com/bureau-foundation/steward/lib/vault"
)

//go:embed seeds/SKILL.md
var schedulerManifest string

// SeedScheduler writes the scheduler skill's manifest iff absent. The
// scheduler skill teaches the agent how to ask steward to adjust
// scheduled jobs; it ships compiled into the binary rather than in the
// baseline bundle because it documents this binary's own interface.
func SeedScheduler(skillsDir string) (vault.Outcome, error) {
	directory := filepath.Join(skillsDir, "scheduler")
	if _, err := vault.EnsureDirectory(directory); err != nil {
		return vault.Outcome{}, err
	}
	return vault.EnsureFile(filepath.Join(directory, "SKILL.md"), []byte(schedulerManifest))
}
