// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"
)

//go:embed seeds/*.md
var seedFiles embed.FS

// Tree names the two roots the scaffold operates on.
type Tree struct {
	// VaultDir is the vault root on the persistent volume.
	VaultDir string

	// AgentHome is the agent runtime's config home (holds the
	// instructions document and the skills symlink).
	AgentHome string
}

// SkillsDir returns the vault's skills directory.
func (t Tree) SkillsDir() string {
	return filepath.Join(t.VaultDir, "skills")
}

// SkillsLink returns the agent-home path that links into SkillsDir.
func (t Tree) SkillsLink() string {
	return filepath.Join(t.AgentHome, "skills")
}

// InstructionsPath returns the agent instructions document path.
func (t Tree) InstructionsPath() string {
	return filepath.Join(t.AgentHome, "CLAUDE.md")
}

// directories are the vault-relative directories the scaffold ensures,
// in creation order. Parents precede children only by how MkdirAll
// behaves; the order here is the order outcomes are reported in.
var directories = []string{
	"inbox",
	"todo/now",
	"todo/next",
	"todo/later",
	"resources",
	"skills",
	"prompts",
	"meetings",
	"logs/daily",
	"logs/weekly",
}

// Directories returns the vault-relative directory layout. The slice is
// a copy; callers may reorder it.
func Directories() []string {
	out := make([]string, len(directories))
	copy(out, directories)
	return out
}

// taskStages are the todo stages that receive a TASKS.md seed, with the
// guidance line rendered into each.
var taskStages = []struct {
	Stage    string
	Title    string
	Guidance string
}{
	{"now", "Now", "In progress. Keep this list short; finish before pulling from next."},
	{"next", "Next", "Queued. Promote into now when a slot opens."},
	{"later", "Later", "Parked. Revisit during weekly review; delete freely."},
}

// SeedDocuments returns the vault-relative paths of all seed files the
// scaffold manages inside the vault. The agent instructions document
// lives outside the vault and is not listed here.
func SeedDocuments() []string {
	out := []string{"MEMORY.md", "GUIDE.md"}
	for _, stage := range taskStages {
		out = append(out, filepath.Join("todo", stage.Stage, "TASKS.md"))
	}
	return out
}

// Scaffold brings the full tree to its converged shape: the vault
// directories, the vault seed documents, the agent home with its
// instructions document, and the skills symlink. Returns one outcome
// per node in application order. The symlink is ensured last, after
// the skills directory it points at exists.
func Scaffold(tree Tree) ([]Outcome, error) {
	var outcomes []Outcome

	apply := func(outcome Outcome, err error) error {
		if err != nil {
			return err
		}
		outcomes = append(outcomes, outcome)
		return nil
	}

	for _, relative := range directories {
		if err := apply(EnsureDirectory(filepath.Join(tree.VaultDir, relative))); err != nil {
			return outcomes, err
		}
	}

	memory, err := renderSeed("seeds/MEMORY.md", tree)
	if err != nil {
		return outcomes, err
	}
	if err := apply(EnsureFile(filepath.Join(tree.VaultDir, "MEMORY.md"), memory)); err != nil {
		return outcomes, err
	}

	guide, err := renderSeed("seeds/GUIDE.md", tree)
	if err != nil {
		return outcomes, err
	}
	if err := apply(EnsureFile(filepath.Join(tree.VaultDir, "GUIDE.md"), guide)); err != nil {
		return outcomes, err
	}

	for _, stage := range taskStages {
		content, err := renderTasksSeed(stage.Title, stage.Guidance)
		if err != nil {
			return outcomes, err
		}
		path := filepath.Join(tree.VaultDir, "todo", stage.Stage, "TASKS.md")
		if err := apply(EnsureFile(path, content)); err != nil {
			return outcomes, err
		}
	}

	if err := apply(EnsureDirectory(tree.AgentHome)); err != nil {
		return outcomes, err
	}

	instructions, err := renderSeed("seeds/CLAUDE.md", tree)
	if err != nil {
		return outcomes, err
	}
	if err := apply(EnsureFile(tree.InstructionsPath(), instructions)); err != nil {
		return outcomes, err
	}

	if err := apply(EnsureSymlink(tree.SkillsLink(), tree.SkillsDir())); err != nil {
		return outcomes, err
	}

	return outcomes, nil
}

// renderSeed renders an embedded seed template with the tree as data.
// Failures indicate a bug in the embedded content, not a runtime
// condition.
func renderSeed(name string, tree Tree) ([]byte, error) {
	raw, err := seedFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading embedded seed %s: %w", name, err)
	}
	parsed, err := template.New(filepath.Base(name)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded seed %s: %w", name, err)
	}
	var buffer bytes.Buffer
	if err := parsed.Execute(&buffer, tree); err != nil {
		return nil, fmt.Errorf("rendering embedded seed %s: %w", name, err)
	}
	return buffer.Bytes(), nil
}

// renderTasksSeed renders the per-stage task list seed.
func renderTasksSeed(title, guidance string) ([]byte, error) {
	raw, err := seedFiles.ReadFile("seeds/TASKS.md")
	if err != nil {
		return nil, fmt.Errorf("reading embedded seed seeds/TASKS.md: %w", err)
	}
	parsed, err := template.New("TASKS.md").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded seed seeds/TASKS.md: %w", err)
	}
	var buffer bytes.Buffer
	data := struct {
		Title    string
		Guidance string
	}{Title: title, Guidance: guidance}
	if err := parsed.Execute(&buffer, data); err != nil {
		return nil, fmt.Errorf("rendering embedded seed seeds/TASKS.md: %w", err)
	}
	return buffer.Bytes(), nil
}
