// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package crontab

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
)

// daemonCandidates are the cron daemon names and locations probed in
// order. Alpine and busybox images ship crond; Debian-family images
// ship cron. PATH is tried first, then the sbin directories that
// minimal images sometimes leave off PATH.
var daemonCandidates = []string{
	"crond",
	"cron",
	"/usr/sbin/crond",
	"/usr/sbin/cron",
	"/sbin/crond",
	"/sbin/cron",
}

// DaemonStarter launches the system cron daemon.
type DaemonStarter struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// lookPath and startFunc are test seams. Nil means exec.LookPath
	// and a real detached process start.
	lookPath  func(file string) (string, error)
	startFunc func(path string) (int, error)
}

// Start resolves the cron daemon binary and spawns it. Both crond and
// cron background themselves, so Start returns as soon as the process
// is up; a daemon already running on the host is harmless. A missing
// binary is an error: without a daemon the digest job would be
// registered but never fire.
func (s *DaemonStarter) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	binary, err := s.resolve()
	if err != nil {
		return err
	}

	pid, err := s.start(binary)
	if err != nil {
		return fmt.Errorf("starting cron daemon %q: %w", binary, err)
	}

	s.logger().Info("cron daemon started", "binary", binary, "pid", pid)
	return nil
}

func (s *DaemonStarter) resolve() (string, error) {
	look := s.lookPath
	if look == nil {
		look = exec.LookPath
	}
	for _, candidate := range daemonCandidates {
		if path, err := look(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no cron daemon found (tried %s)", strings.Join(daemonCandidates, ", "))
}

func (s *DaemonStarter) start(binary string) (int, error) {
	if s.startFunc != nil {
		return s.startFunc(binary)
	}

	// The daemon must outlive the bootstrap, so no context binds the
	// child's lifetime. It double-forks away; its intermediate exit
	// is reaped by whichever process holds PID 1 after the bootstrap
	// execs the bridge.
	command := exec.Command(binary)
	command.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := command.Start(); err != nil {
		return 0, err
	}
	pid := command.Process.Pid
	if err := command.Process.Release(); err != nil {
		return pid, err
	}
	return pid, nil
}

func (s *DaemonStarter) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
