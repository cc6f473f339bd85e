// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/steward/lib/telegram"
)

const digestFooter = "\n—\nPowered by CoinGecko | AI Summary"

// formatMargin keeps the framed digest comfortably under the Telegram
// message limit even after the date varies the header width.
const formatMargin = 50

// rawBodyLimit bounds the unsummarized fallback. The raw briefing can
// run far past one message; without a model there is no editor, so the
// tail is simply dropped.
const rawBodyLimit = 3500

// Format frames a summary with the dated digest header and the data
// attribution footer, truncating the body so the whole message fits
// one Telegram send.
func Format(summary string, now time.Time) string {
	header := fmt.Sprintf("📰 Morning Crypto Digest — %s\n", now.UTC().Format("2006-01-02"))
	maxBody := telegram.MaxMessageLength - len(header) - len(digestFooter) - formatMargin
	body := truncate(summary, maxBody)
	if body != summary {
		body += "..."
	}
	return header + "\n" + body + digestFooter
}

// RawFallback renders the briefing itself when no provider produced a
// summary. The result is a complete message with its own header; it is
// sent as-is, not passed through Format.
func RawFallback(briefing string, now time.Time) string {
	return fmt.Sprintf("📰 Raw Crypto Briefing — %s\n\n%s",
		now.UTC().Format("2006-01-02"), truncate(briefing, rawBodyLimit))
}

// ErrorNotice renders the notification sent when the digest could not
// be delivered.
func ErrorNotice(reason string) string {
	return fmt.Sprintf("⚠️ Daily Digest Failed\n%s\nWill retry tomorrow.", reason)
}

// truncate cuts text to at most limit bytes without shearing a UTF-8
// sequence.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
