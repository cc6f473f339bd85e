// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// fallbackCourierBinary is used when courier is neither a sibling of
// this binary nor on PATH. Container images install both binaries here.
const fallbackCourierBinary = "/usr/local/bin/courier"

// execFunc is replaced in tests to observe the exec without replacing
// the test process.
var execFunc = syscall.Exec

// execCourier replaces the current process with courier. On success it
// never returns: courier inherits PID 1 and the open file descriptors.
// Arguments after the flag terminator pass through unchanged.
func execCourier(binaryPath string, passthrough []string, logger *slog.Logger) error {
	argv := append([]string{binaryPath}, passthrough...)
	logger.Info("handing off to courier", "binary", binaryPath, "args", passthrough)
	if err := execFunc(binaryPath, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", binaryPath, err)
	}
	return nil
}

// findCourierBinary locates the courier binary: first as a sibling of
// the running executable, then on PATH, then at the fixed fallback
// location.
func findCourierBinary(logger *slog.Logger) string {
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), "courier")
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			return sibling
		}
	}
	if path, err := exec.LookPath("courier"); err == nil {
		return path
	}
	logger.Warn("courier not found as sibling or on PATH; using fallback",
		"fallback", fallbackCourierBinary)
	return fallbackCourierBinary
}

// validateBinary checks that path names an executable regular file.
func validateBinary(path, name string) error {
	if path == "" {
		return fmt.Errorf("%s binary not found", name)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s binary %s: %w", name, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s binary %s is not a regular file", name, path)
	}
	if info.Mode()&0111 == 0 {
		return fmt.Errorf("%s binary %s is not executable", name, path)
	}
	return nil
}
