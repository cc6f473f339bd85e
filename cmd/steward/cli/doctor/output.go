// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"fmt"
	"os"
	"strings"

	"github.com/bureau-foundation/steward/cmd/steward/cli"
)

// PrintChecklist prints check results as a human-readable checklist
// followed by a one-line summary. Returns a *cli.ExitError with code 1
// when any check is still failing, so the command exits non-zero
// without a redundant error line.
func PrintChecklist(results []Result, fixMode bool, fixed int) error {
	anyFailed := false
	fixableCount := 0

	for _, result := range results {
		prefix := strings.ToUpper(string(result.Status))
		fmt.Fprintf(os.Stdout, "[%-5s]  %-40s  %s\n", prefix, result.Name, result.Message)

		if result.Status == StatusFail {
			anyFailed = true
			if result.FixHint != "" {
				fixableCount++
			}
		}
	}

	fmt.Fprintln(os.Stdout)

	if anyFailed {
		if !fixMode && fixableCount > 0 {
			fmt.Fprintf(os.Stdout, "Run with --fix to repair %d issue(s).\n", fixableCount)
		} else {
			fmt.Fprintln(os.Stdout, "Some checks failed.")
		}
		return &cli.ExitError{Code: 1}
	}

	if fixed > 0 {
		fmt.Fprintf(os.Stdout, "%d issue(s) repaired.\n", fixed)
		return nil
	}

	fmt.Fprintln(os.Stdout, "All checks passed.")
	return nil
}
