// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package crontab

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// DigestMarker tags steward's digest line in the crontab. It rides at
// the end of the job line; cron hands the whole command to the shell,
// which strips the trailing comment.
const DigestMarker = "# steward:digest"

// DigestJob describes the scheduled digest invocation.
type DigestJob struct {
	// Schedule is the five-field cron expression. Validate with
	// lib/cron before installing.
	Schedule string

	// EnvFile is the environment file the job sources before exec.
	EnvFile string

	// Binary is the digest binary path.
	Binary string

	// LogFile receives the job's combined output, appended.
	LogFile string
}

// Line renders the crontab line, tagged with DigestMarker. The job
// runs under /bin/sh, sources the environment file, and appends all
// output to the log file.
func (job DigestJob) Line() string {
	script := fmt.Sprintf(". %s && %s >> %s 2>&1",
		shellquote.Join(job.EnvFile), shellquote.Join(job.Binary), shellquote.Join(job.LogFile))
	return fmt.Sprintf("%s %s %s", job.Schedule, shellquote.Join("/bin/sh", "-c", script), DigestMarker)
}
