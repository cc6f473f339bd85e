// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zeebo/blake3"
)

// EnsureDirectory creates the directory (and any missing parents) if
// the leaf does not exist. An existing directory is a skip; an existing
// non-directory at the path is an error, since creating over it would
// destroy whatever it is.
func EnsureDirectory(path string) (Outcome, error) {
	outcome := Outcome{Path: path, Kind: KindDirectory}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return outcome, fmt.Errorf("path %q exists but is not a directory", path)
		}
		outcome.Action = ActionSkipped
		return outcome, nil
	case !os.IsNotExist(err):
		return outcome, fmt.Errorf("inspecting %q: %w", path, err)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return outcome, fmt.Errorf("creating directory %q: %w", path, err)
	}
	outcome.Action = ActionApplied
	return outcome, nil
}

// EnsureFile writes content to path only if nothing exists there.
// Anything already at the path, whatever its content or type, makes
// this a skip. Applied outcomes carry the BLAKE3 digest of the written
// content.
func EnsureFile(path string, content []byte) (Outcome, error) {
	outcome := Outcome{Path: path, Kind: KindFile}

	// Lstat rather than Stat: a dangling symlink still occupies the
	// path and must not be written through.
	if _, err := os.Lstat(path); err == nil {
		outcome.Action = ActionSkipped
		return outcome, nil
	} else if !os.IsNotExist(err) {
		return outcome, fmt.Errorf("inspecting %q: %w", path, err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return outcome, fmt.Errorf("seeding %q: %w", path, err)
	}

	digest := blake3.Sum256(content)
	outcome.Action = ActionApplied
	outcome.ContentHash = hex.EncodeToString(digest[:])
	return outcome, nil
}

// EnsureSymlink creates a symlink at linkPath pointing to target, but
// only if the link path is entirely vacant. Any existing node there,
// including a dangling symlink or a link to a different target, makes
// this a skip: the reconciler never clobbers.
func EnsureSymlink(linkPath, target string) (Outcome, error) {
	outcome := Outcome{Path: linkPath, Kind: KindSymlink}

	if _, err := os.Lstat(linkPath); err == nil {
		outcome.Action = ActionSkipped
		return outcome, nil
	} else if !os.IsNotExist(err) {
		return outcome, fmt.Errorf("inspecting %q: %w", linkPath, err)
	}

	if err := os.Symlink(target, linkPath); err != nil {
		return outcome, fmt.Errorf("linking %q to %q: %w", linkPath, target, err)
	}
	outcome.Action = ActionApplied
	return outcome, nil
}

// HashContent returns the hex BLAKE3 digest of data, the same form
// stored in applied file outcomes. The doctor hashes current file
// content with this to decide whether a seed was edited since it was
// written.
func HashContent(data []byte) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:])
}
