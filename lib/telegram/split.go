// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into chunks of at most limit bytes. Each
// split lands on the last newline inside the chunk when one sits in
// its second half; otherwise the chunk is cut hard at the limit,
// backed off to a rune boundary. Newlines consumed by a split are
// dropped from the start of the remainder.
func SplitMessage(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut < limit/2 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				// limit smaller than a single rune; shear rather
				// than loop forever
				cut = limit
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
