// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/steward/lib/llm"
)

// systemPrompt is the editorial instruction for the digest. It names
// the section headers the summary must use and bounds its length well
// inside a single Telegram message.
const systemPrompt = `You are a crypto morning briefing analyst. Given raw market data, trending coins, and news headlines, compile a concise daily digest for Telegram.

Format with these sections using emoji headers:
📊 MARKET MOOD: One word (Bullish/Bearish/Neutral/Mixed) + brief reason (1 sentence)
📰 TOP STORIES: 3-5 most important items from the headlines, each as a bullet
🔥 TRENDING: Notable trending coins with brief context
📈 MACRO: Any macro-relevant news (skip if nothing)
👀 WATCHLIST: 3-5 tickers with one-word sentiment tag

Rules:
- Keep total under 1800 characters
- Use plain text with emoji. No markdown links or formatting
- Be factual. Do not speculate or add information not in the data
- If data is sparse, keep the briefing shorter rather than padding`

// promptPrefix introduces the raw briefing in the user turn.
const promptPrefix = "Here is today's raw crypto market data and news. Create the morning briefing:\n\n"

// summaryMaxTokens bounds the completion. The digest has to fit one
// Telegram message, so a longer completion has no use.
const summaryMaxTokens = 1024

// Candidate pairs a provider with the model it should run.
type Candidate struct {
	Provider llm.Provider
	Model    string
}

// Summarizer condenses the raw briefing into the digest body by
// trying each candidate in order.
type Summarizer struct {
	// Candidates are tried first to last. The first candidate that
	// returns a non-empty completion wins.
	Candidates []Candidate

	// Logger receives per-candidate failures. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Summarize returns the first successful candidate's summary. It
// fails only when every candidate does, with the per-candidate errors
// joined.
func (s *Summarizer) Summarize(ctx context.Context, briefing string) (string, error) {
	if len(s.Candidates) == 0 {
		return "", errors.New("no summarization providers configured")
	}
	var failures []error
	for _, candidate := range s.Candidates {
		response, err := candidate.Provider.Complete(ctx, llm.Request{
			Model:     candidate.Model,
			MaxTokens: summaryMaxTokens,
			System:    systemPrompt,
			Prompt:    promptPrefix + briefing,
		})
		if err != nil {
			s.logger().Warn("summarization failed",
				"provider", candidate.Provider.Name(),
				"model", candidate.Model,
				"error", err)
			failures = append(failures, fmt.Errorf("%s: %w", candidate.Provider.Name(), err))
			continue
		}
		summary := strings.TrimSpace(response.Text)
		if summary == "" {
			s.logger().Warn("summarization returned no text",
				"provider", candidate.Provider.Name(),
				"model", candidate.Model)
			failures = append(failures, fmt.Errorf("%s: empty completion", candidate.Provider.Name()))
			continue
		}
		s.logger().Info("summarization succeeded",
			"provider", candidate.Provider.Name(),
			"model", candidate.Model,
			"length", len(summary))
		return summary, nil
	}
	return "", errors.Join(failures...)
}

func (s *Summarizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
