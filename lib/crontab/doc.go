// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package crontab manages the user crontab and the system cron daemon
// for steward's scheduled jobs.
//
// The digest job is registered by upsert: every line tagged with the
// steward marker is removed and exactly one current line is appended,
// so repeated bootstraps never accumulate duplicate entries. Lines
// steward does not own pass through byte-for-byte.
//
// Crontab access goes through the Table interface. The real
// implementation shells out to crontab(1); tests substitute an
// in-memory fake.
package crontab
