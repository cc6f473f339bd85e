// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bureau-foundation/steward/lib/market"
)

// Input carries the collected data for one briefing. Nil or empty
// market fields render as "unavailable" sections, so a partial
// CoinGecko outage still produces a digest.
type Input struct {
	// CollectedAt stamps the briefing header. Rendered in UTC.
	CollectedAt time.Time

	Global   *market.GlobalStats
	Trending []market.TrendingCoin
	TopCoins []market.Coin

	// Topics is the operator's watchlist, already merged from the
	// environment and the vault watchlist file.
	Topics []string
}

// englishPrinter renders the comma-grouped dollar figures
// ("$3,514.2B"). Plain fmt covers everything that never reaches four
// integer digits.
var englishPrinter = message.NewPrinter(language.English)

// BuildBriefing renders the raw text briefing handed to the model for
// summarization. The section layout is stable; the editorial prompt
// describes the digest in terms of it.
func BuildBriefing(input Input) string {
	timestamp := input.CollectedAt.UTC().Format("2006-01-02 15:04")
	sections := []string{"Data collected at: " + timestamp + " UTC\n"}
	sections = append(sections, globalSection(input.Global))
	sections = append(sections, trendingSection(input.Trending)...)
	sections = append(sections, topCoinSection(input.TopCoins)...)
	if len(input.Topics) > 0 {
		sections = append(sections, "USER WATCHLIST TOPICS: "+strings.Join(input.Topics, ", ")+"\n")
	}
	return strings.Join(sections, "\n")
}

func globalSection(stats *market.GlobalStats) string {
	if stats == nil {
		return "GLOBAL MARKET DATA: unavailable\n"
	}
	return fmt.Sprintf(
		"GLOBAL MARKET DATA:\n"+
			"- Total Market Cap: $%sB (%+.1f%% 24h)\n"+
			"- BTC Dominance: %.1f%%\n"+
			"- ETH Dominance: %.1f%%\n"+
			"- 24h Volume: $%sB\n",
		englishPrinter.Sprintf("%.1f", stats.TotalMarketCap["usd"]/1e9),
		stats.MarketCapChange24hUSD,
		stats.MarketCapPercentage["btc"],
		stats.MarketCapPercentage["eth"],
		englishPrinter.Sprintf("%.1f", stats.TotalVolume["usd"]/1e9),
	)
}

func trendingSection(coins []market.TrendingCoin) []string {
	if len(coins) == 0 {
		return []string{"TRENDING COINS: unavailable\n"}
	}
	sections := []string{"TRENDING COINS ON COINGECKO:"}
	for i, coin := range coins[:min(len(coins), 10)] {
		rank := "?"
		if coin.MarketCapRank > 0 {
			rank = strconv.Itoa(coin.MarketCapRank)
		}
		sections = append(sections, fmt.Sprintf("  %d. %s (%s) — Rank #%s — 24h: %+.1f%%",
			i+1, coin.Name, coin.Symbol, rank, coin.PriceChange24hUSD))
	}
	return append(sections, "")
}

func topCoinSection(coins []market.Coin) []string {
	if len(coins) == 0 {
		return []string{"TOP COINS: unavailable\n"}
	}
	sections := []string{"TOP 10 BY MARKET CAP:"}
	for _, coin := range coins[:min(len(coins), 10)] {
		var change float64
		if coin.PriceChange24h != nil {
			change = *coin.PriceChange24h
		}
		sections = append(sections, fmt.Sprintf("  %s (%s): $%s | 24h: %+.1f%% | MCap: $%sB",
			coin.Name, strings.ToUpper(coin.Symbol),
			englishPrinter.Sprintf("%.2f", coin.CurrentPrice),
			change,
			englishPrinter.Sprintf("%.1f", coin.MarketCap/1e9)))
	}
	sections = append(sections, "")

	// Movers scan the whole fetch, not just the ten listed above.
	movers := make([]market.Coin, 0, len(coins))
	for _, coin := range coins {
		if coin.PriceChange24h != nil {
			movers = append(movers, coin)
		}
	}
	if len(movers) > 0 {
		slices.SortStableFunc(movers, func(a, b market.Coin) int {
			return cmp.Compare(*b.PriceChange24h, *a.PriceChange24h)
		})
		gainer := movers[0]
		loser := movers[len(movers)-1]
		sections = append(sections, fmt.Sprintf(
			"BIGGEST MOVERS (top 20):\n"+
				"  🟢 Top gainer: %s (%s) %+.1f%%\n"+
				"  🔴 Top loser: %s (%s) %+.1f%%\n",
			gainer.Name, strings.ToUpper(gainer.Symbol), *gainer.PriceChange24h,
			loser.Name, strings.ToUpper(loser.Symbol), *loser.PriceChange24h))
	}
	return sections
}
