// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/steward/lib/bootstrap"
	"github.com/bureau-foundation/steward/lib/digest"
	"github.com/bureau-foundation/steward/lib/llm"
	"github.com/bureau-foundation/steward/lib/market"
	"github.com/bureau-foundation/steward/lib/process"
	"github.com/bureau-foundation/steward/lib/telegram"
	"github.com/bureau-foundation/steward/lib/version"
)

// fallbackOpenAIModel runs the digest when Anthropic is unavailable.
// STEWARD_DIGEST_MODEL names the Anthropic model only.
const fallbackOpenAIModel = "gpt-4o-mini"

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		dryRun      bool
		showVersion bool
	)

	flag.BoolVar(&dryRun, "dry-run", false, "print the digest to stdout instead of sending it")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("steward-digest %s\n", version.Info())
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state, err := bootstrap.FromEnvironment()
	if err != nil {
		return err
	}
	defer state.Close()

	if !state.HasModelKey() {
		return errors.New("no model-provider key (ANTHROPIC_API_KEY or OPENAI_API_KEY) in the environment")
	}

	token, chatID, haveTelegram := state.TelegramTarget()
	if !haveTelegram && !dryRun {
		logger.Warn("no usable Telegram target; printing the digest instead of sending")
		dryRun = true
	}

	now := time.Now().UTC()
	input := collectMarketData(ctx, market.NewClient(market.Config{}), logger)
	input.CollectedAt = now
	input.Topics = loadTopics(state, logger)

	briefing := digest.BuildBriefing(input)
	logger.Info("briefing assembled", "bytes", len(briefing), "topics", len(input.Topics))

	summarizer := &digest.Summarizer{
		Candidates: modelCandidates(state),
		Logger:     logger,
	}
	var message string
	summary, err := summarizer.Summarize(ctx, briefing)
	if err != nil {
		logger.Warn("summarization failed; sending the raw briefing", "error", err)
		message = digest.RawFallback(briefing, now)
	} else {
		message = digest.Format(summary, now)
	}

	if dryRun {
		printDigest(message)
		return nil
	}

	client, err := telegram.NewClient(telegram.Config{Token: token})
	if err != nil {
		return err
	}
	if err := client.SendMessage(ctx, chatID, message); err != nil {
		logger.Error("digest send failed", "error", err)
		if noticeErr := client.SendMessage(ctx, chatID, digest.ErrorNotice("Failed to send digest message.")); noticeErr != nil {
			logger.Error("failure notice send failed", "error", noticeErr)
		}
		return fmt.Errorf("sending digest: %w", err)
	}
	logger.Info("digest sent", "chat_id", chatID, "bytes", len(message))
	return nil
}

// collectMarketData runs the three CoinGecko fetches. Each failure is
// logged and leaves its section empty; the briefing renders what it
// got and marks the rest unavailable.
func collectMarketData(ctx context.Context, client *market.Client, logger *slog.Logger) digest.Input {
	var input digest.Input
	var err error
	if input.Global, err = client.Global(ctx); err != nil {
		logger.Warn("global market data unavailable", "error", err)
	}
	if input.Trending, err = client.Trending(ctx); err != nil {
		logger.Warn("trending coins unavailable", "error", err)
	}
	if input.TopCoins, err = client.TopCoins(ctx); err != nil {
		logger.Warn("top coins unavailable", "error", err)
	}
	return input
}

// loadTopics merges the environment topic list with the vault
// watchlist. An unreadable watchlist is logged and skipped.
func loadTopics(state *bootstrap.DesiredState, logger *slog.Logger) []string {
	watchlist, err := digest.LoadWatchlist(state.WatchlistPath())
	if err != nil {
		logger.Warn("vault watchlist unreadable; continuing without it", "error", err)
	}
	return digest.Topics(state.DigestTopics, watchlist)
}

// modelCandidates builds the summarization order: Anthropic with the
// configured digest model first, then OpenAI with the fixed fallback
// model. Keys that are not configured drop their candidate.
func modelCandidates(state *bootstrap.DesiredState) []digest.Candidate {
	var candidates []digest.Candidate
	if state.AnthropicKey != nil {
		candidates = append(candidates, digest.Candidate{
			Provider: llm.NewAnthropic(llm.AnthropicConfig{APIKey: state.AnthropicKey.String()}),
			Model:    state.DigestModel,
		})
	}
	if state.OpenAIKey != nil {
		candidates = append(candidates, digest.Candidate{
			Provider: llm.NewOpenAI(llm.OpenAIConfig{APIKey: state.OpenAIKey.String()}),
			Model:    fallbackOpenAIModel,
		})
	}
	return candidates
}

// printDigest writes the digest to stdout framed for eyeballing.
func printDigest(message string) {
	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Println(message)
	fmt.Println(rule)
	fmt.Printf("\nLength: %d chars\n", utf8.RuneCountInString(message))
}
