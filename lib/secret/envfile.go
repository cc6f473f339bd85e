// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Var is one entry in a job environment file.
type Var struct {
	// Name is the environment variable name. Must be a valid shell
	// identifier: a letter or underscore followed by letters, digits,
	// or underscores.
	Name string

	// Value is the raw value. It is shell-quoted on write, so any
	// byte sequence survives the round trip through ". file".
	Value string
}

// WriteEnvFile writes a shell-sourceable environment file at path with
// mode 0600. Each entry becomes one "export NAME=value" line with the
// value quoted via shellquote, so a scheduled job can load it with
// ". path" before exec'ing the job binary.
//
// The write is atomic: content goes to a temporary file in the same
// directory, is synced, and is renamed into place, so a job firing
// mid-write sees either the old file or the new one, never a torn
// mixture. The parent directory is created if missing, mode 0700.
func WriteEnvFile(path string, vars []Var) error {
	for _, variable := range vars {
		if !validVarName(variable.Name) {
			return fmt.Errorf("invalid environment variable name %q", variable.Name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating environment file directory: %w", err)
	}

	var content strings.Builder
	for _, variable := range vars {
		fmt.Fprintf(&content, "export %s=%s\n", variable.Name, shellquote.Join(variable.Value))
	}

	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary environment file: %w", err)
	}

	// Write, sync, close, in that order. A failure at any step
	// removes the temporary file.
	if _, err := file.WriteString(content.String()); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary environment file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary environment file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary environment file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming environment file into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss.
	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// validVarName reports whether name is a portable shell identifier.
func validVarName(name string) bool {
	if name == "" {
		return false
	}
	for index, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if index == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
