// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cron parses standard 5-field cron expressions and computes
// the next occurrence after a given time.
//
// steward validates every schedule expression before installing it in
// the system crontab (the digest job's schedule, whether derived from
// the digest hour or supplied verbatim as an override), and reports
// the computed next fire time in its logs and doctor output.
//
// Supported syntax:
//
//	┌───────────── minute (0-59)
//	│ ┌───────────── hour (0-23)
//	│ │ ┌───────────── day of month (1-31)
//	│ │ │ ┌───────────── month (1-12)
//	│ │ │ │ ┌───────────── day of week (0-7, 0 and 7 = Sunday)
//	│ │ │ │ │
//	* * * * *
//
// Each field supports:
//   - Single values: 5
//   - Ranges: 1-5
//   - Lists: 1,3,5
//   - Steps: */15, 1-30/5
//   - Wildcard: *
//
// Day-of-week 7 is accepted as a synonym for Sunday, matching the
// system crontab the expressions are destined for. All computation is
// UTC. There are no @daily shortcuts, no seconds field, and no named
// days or months: the containers steward targets run UTC wall-clock
// time, and the expressions steward itself generates are plain
// numerics.
package cron
