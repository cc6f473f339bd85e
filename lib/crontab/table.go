// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package crontab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Table reads and replaces a user's crontab.
type Table interface {
	// Read returns the current crontab lines. A user with no
	// crontab yields an empty slice, not an error.
	Read(ctx context.Context) ([]string, error)

	// Write replaces the whole crontab with lines.
	Write(ctx context.Context, lines []string) error
}

// SystemTable is the Table backed by crontab(1).
type SystemTable struct {
	// runFunc runs the crontab binary with the given stdin and
	// arguments, returning its stdout. Nil means the real command
	// runner; tests inject a recorder.
	runFunc func(ctx context.Context, stdin string, args ...string) (string, error)
}

// NewSystemTable returns a Table that shells out to crontab(1).
func NewSystemTable() *SystemTable {
	return &SystemTable{}
}

func (t *SystemTable) run(ctx context.Context, stdin string, args ...string) (string, error) {
	if t.runFunc != nil {
		return t.runFunc(ctx, stdin, args...)
	}

	command := exec.CommandContext(ctx, "crontab", args...)
	command.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return "", fmt.Errorf("crontab %s: %w (stderr: %s)", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Read lists the current crontab. crontab -l exits nonzero when the
// user has no crontab yet; distinguishing that from real failure by
// message is not portable across vixie and busybox implementations,
// so any clean nonzero exit reads as an empty table. A genuinely
// broken crontab surfaces on the subsequent Write.
func (t *SystemTable) Read(ctx context.Context) ([]string, error) {
	output, err := t.run(ctx, "", "-l")
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, nil
		}
		return nil, err
	}
	if output == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimRight(output, "\n"), "\n"), nil
}

// Write installs lines as the complete crontab via crontab -.
func (t *SystemTable) Write(ctx context.Context, lines []string) error {
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if _, err := t.run(ctx, content, "-"); err != nil {
		return err
	}
	return nil
}

// Upsert removes every line in the table carrying marker and appends
// line, which must itself carry the marker so the next upsert finds
// it. All other lines pass through byte-for-byte.
func Upsert(ctx context.Context, table Table, marker, line string) error {
	if marker == "" {
		return fmt.Errorf("upsert marker must not be empty")
	}
	if !strings.Contains(line, marker) {
		return fmt.Errorf("crontab line %q does not carry marker %q", line, marker)
	}

	existing, err := table.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading crontab: %w", err)
	}

	kept := make([]string, 0, len(existing)+1)
	for _, existingLine := range existing {
		if strings.Contains(existingLine, marker) {
			continue
		}
		kept = append(kept, existingLine)
	}
	kept = append(kept, line)

	if err := table.Write(ctx, kept); err != nil {
		return fmt.Errorf("writing crontab: %w", err)
	}
	return nil
}
