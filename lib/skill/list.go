// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill describes one installed skill, read from the YAML frontmatter
// of its SKILL.md manifest.
type Skill struct {
	// Name is the skill's declared name, falling back to the
	// directory name when the manifest carries no frontmatter.
	Name string `json:"name"`

	// Description is the one-line summary from the manifest.
	Description string `json:"description,omitempty"`

	// Directory is the skill's directory name under the skills
	// directory.
	Directory string `json:"directory"`
}

// manifest is the SKILL.md frontmatter schema.
type manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// List returns the installed skills sorted by name. A directory
// without a SKILL.md manifest is not a skill and is ignored, as are
// hidden directories (install staging).
func List(skillsDir string) ([]Skill, error) {
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		return nil, fmt.Errorf("reading skills directory: %w", err)
	}

	var skills []Skill
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(skillsDir, entry.Name(), "SKILL.md"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest for %q: %w", entry.Name(), err)
		}

		parsed, err := parseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("parsing manifest for %q: %w", entry.Name(), err)
		}
		installed := Skill{Name: parsed.Name, Description: parsed.Description, Directory: entry.Name()}
		if installed.Name == "" {
			installed.Name = entry.Name()
		}
		skills = append(skills, installed)
	}

	slices.SortFunc(skills, func(a, b Skill) int { return strings.Compare(a.Name, b.Name) })
	return skills, nil
}

// parseManifest extracts the YAML frontmatter from a SKILL.md
// document. Frontmatter is optional: a manifest that does not open
// with a "---" line yields the zero manifest.
func parseManifest(data []byte) (manifest, error) {
	var parsed manifest
	body, found := strings.CutPrefix(string(data), "---\n")
	if !found {
		return parsed, nil
	}
	front, _, found := strings.Cut(body, "\n---")
	if !found {
		return parsed, fmt.Errorf("unterminated frontmatter")
	}
	if err := yaml.Unmarshal([]byte(front), &parsed); err != nil {
		return parsed, fmt.Errorf("frontmatter: %w", err)
	}
	return parsed, nil
}
