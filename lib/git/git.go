// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for the bootstrap's
// needs: cloning repository mirrors, setting the agent's global git
// identity, and writing the credential store file. Unlike a workspace
// manager, the bootstrap mostly runs git before any repository exists,
// so commands here are not anchored to a directory with -C; the few
// that need a target take it as an argument.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git runs git commands. The zero value is not usable; construct with
// New.
type Git struct {
	// runFunc executes one git invocation and returns stdout. Nil
	// means run the real binary. Injectable for testing.
	runFunc func(ctx context.Context, args ...string) (string, error)
}

// New returns a Git running the real git binary from PATH.
func New() *Git {
	return &Git{}
}

// run executes a git command and returns stdout. Stderr is captured
// separately and included in error messages on failure.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	if g.runFunc != nil {
		return g.runFunc(ctx, args...)
	}

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Clone clones url into directory. The parent of directory must
// exist. Progress output is discarded; only failure is interesting
// here.
func (g *Git) Clone(ctx context.Context, url, directory string) error {
	if _, err := g.run(ctx, "clone", url, directory); err != nil {
		return fmt.Errorf("cloning into %q: %w", directory, err)
	}
	return nil
}

// SetGlobalConfig sets a key in the global git configuration, the
// scope the agent's later commits and pushes read.
func (g *Git) SetGlobalConfig(ctx context.Context, key, value string) error {
	if _, err := g.run(ctx, "config", "--global", key, value); err != nil {
		return fmt.Errorf("setting git config %s: %w", key, err)
	}
	return nil
}
