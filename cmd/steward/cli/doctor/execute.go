// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"fmt"
)

// ExecuteFixes runs the fix action for each fixable failure, updating
// results in place. A successful fix flips the result to StatusFixed;
// a failed fix leaves it failing with the fix error appended to the
// message. Returns the number of successful fixes.
func ExecuteFixes(ctx context.Context, results []Result) int {
	fixed := 0
	for i := range results {
		if results[i].Status != StatusFail || results[i].fix == nil {
			continue
		}
		if err := results[i].fix(ctx); err != nil {
			results[i].Message = fmt.Sprintf("%s (fix failed: %v)", results[i].Message, err)
			continue
		}
		results[i].Status = StatusFixed
		fixed++
	}
	return fixed
}

// BuildJSON builds the JSON output struct from results.
func BuildJSON(results []Result, fixed int) JSONOutput {
	ok := true
	for _, result := range results {
		if result.Status == StatusFail {
			ok = false
			break
		}
	}
	return JSONOutput{
		Checks: results,
		OK:     ok,
		Fixed:  fixed,
	}
}
