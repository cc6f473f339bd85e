// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor provides the check/fix/report machinery behind
// "steward doctor": typed check results, fix execution, the checklist
// renderer, and the JSON output shape. The checks themselves live in
// cmd/steward/doctor; this package only knows how to run fixes and
// present results.
package doctor
