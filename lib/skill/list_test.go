// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/steward/lib/vault"
)

func writeSkill(t *testing.T, skillsDir, directory, manifest string) {
	t.Helper()
	dir := filepath.Join(skillsDir, directory)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating skill directory: %v", err)
	}
	if manifest == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	writeSkill(t, skillsDir, "alpha", "---\nname: zeta\ndescription: Renamed in its manifest\n---\n\n# Zeta\n")
	writeSkill(t, skillsDir, "beta", "# No frontmatter here\n")
	writeSkill(t, skillsDir, "gamma", "") // directory without a manifest
	writeSkill(t, skillsDir, ".install-12345", "---\nname: staging\n---\n")
	if err := os.WriteFile(filepath.Join(skillsDir, "README.md"), []byte("not a skill\n"), 0o644); err != nil {
		t.Fatalf("writing stray file: %v", err)
	}

	skills, err := List(skillsDir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []Skill{
		{Name: "beta", Directory: "beta"},
		{Name: "zeta", Description: "Renamed in its manifest", Directory: "alpha"},
	}
	if len(skills) != len(want) {
		t.Fatalf("List returned %d skills, want %d: %+v", len(skills), len(want), skills)
	}
	for i, skill := range skills {
		if skill != want[i] {
			t.Errorf("skills[%d] = %+v, want %+v", i, skill, want[i])
		}
	}
}

func TestListMissingDirectory(t *testing.T) {
	t.Parallel()

	if _, err := List(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("List succeeded on a missing directory")
	}
}

func TestListMalformedManifest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		manifest string
	}{
		{"unterminated frontmatter", "---\nname: broken\n"},
		{"invalid yaml", "---\nname: [unclosed\n---\n"},
	}
	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			skillsDir := t.TempDir()
			writeSkill(t, skillsDir, "broken", testCase.manifest)

			_, err := List(skillsDir)
			if err == nil {
				t.Fatal("List accepted a malformed manifest")
			}
			if !strings.Contains(err.Error(), "broken") {
				t.Errorf("error = %v, want the skill directory named", err)
			}
		})
	}
}

func TestParseManifest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  manifest
	}{
		{"full", "---\nname: research\ndescription: Deep dives\n---\n\nbody\n", manifest{Name: "research", Description: "Deep dives"}},
		{"no frontmatter", "# Just markdown\n", manifest{}},
		{"empty frontmatter", "---\n---\nbody\n", manifest{}},
		{"extra keys ignored", "---\nname: x\nversion: 3\n---\n", manifest{Name: "x"}},
	}
	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			parsed, err := parseManifest([]byte(testCase.input))
			if err != nil {
				t.Fatalf("parseManifest: %v", err)
			}
			if parsed != testCase.want {
				t.Errorf("parseManifest = %+v, want %+v", parsed, testCase.want)
			}
		})
	}
}

func TestSeedScheduler(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	outcome, err := SeedScheduler(skillsDir)
	if err != nil {
		t.Fatalf("SeedScheduler: %v", err)
	}
	if !outcome.Applied() {
		t.Errorf("outcome.Action = %q, want applied", outcome.Action)
	}
	if want := filepath.Join(skillsDir, "scheduler", "SKILL.md"); outcome.Path != want {
		t.Errorf("outcome.Path = %q, want %q", outcome.Path, want)
	}

	skills, err := List(skillsDir)
	if err != nil {
		t.Fatalf("List after seed: %v", err)
	}
	if len(skills) != 1 || skills[0].Name != "scheduler" {
		t.Fatalf("List = %+v, want the scheduler skill", skills)
	}
	if skills[0].Description == "" {
		t.Error("scheduler manifest has no description")
	}
}

func TestSeedSchedulerPreservesUserEdits(t *testing.T) {
	t.Parallel()

	skillsDir := t.TempDir()
	if _, err := SeedScheduler(skillsDir); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	manifestPath := filepath.Join(skillsDir, "scheduler", "SKILL.md")
	edited := "---\nname: scheduler\ndescription: My tuned version\n---\n"
	if err := os.WriteFile(manifestPath, []byte(edited), 0o644); err != nil {
		t.Fatalf("editing manifest: %v", err)
	}

	outcome, err := SeedScheduler(skillsDir)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if outcome.Action != vault.ActionSkipped {
		t.Errorf("outcome.Action = %q, want skipped on reseed", outcome.Action)
	}
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if string(content) != edited {
		t.Error("reseed overwrote the user's edit")
	}
}
