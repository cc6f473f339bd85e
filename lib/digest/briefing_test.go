// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/steward/lib/market"
)

func change(value float64) *float64 { return &value }

func TestBuildBriefing(t *testing.T) {
	t.Parallel()

	input := Input{
		CollectedAt: time.Date(2026, time.February, 14, 7, 5, 0, 0, time.UTC),
		Global: &market.GlobalStats{
			TotalMarketCap:        map[string]float64{"usd": 3_514_200_000_000},
			TotalVolume:           map[string]float64{"usd": 98_700_000_000},
			MarketCapPercentage:   map[string]float64{"btc": 52.34, "eth": 17.3},
			MarketCapChange24hUSD: 2.4,
		},
		Trending: []market.TrendingCoin{
			{Name: "Sui", Symbol: "SUI", MarketCapRank: 14, PriceChange24hUSD: 5.23},
			{Name: "Turbo", Symbol: "TURBO", PriceChange24hUSD: -3.8},
		},
		TopCoins: []market.Coin{
			{Name: "Bitcoin", Symbol: "btc", CurrentPrice: 67_432.25, MarketCap: 1_330_000_000_000, PriceChange24h: change(1.2)},
			{Name: "Ethereum", Symbol: "eth", CurrentPrice: 3_250.5, MarketCap: 391_000_000_000},
			{Name: "Solana", Symbol: "sol", CurrentPrice: 142, MarketCap: 65_500_000_000, PriceChange24h: change(-2.4)},
		},
		Topics: []string{"solana", "etf flows"},
	}

	want := `Data collected at: 2026-02-14 07:05 UTC

GLOBAL MARKET DATA:
- Total Market Cap: $3,514.2B (+2.4% 24h)
- BTC Dominance: 52.3%
- ETH Dominance: 17.3%
- 24h Volume: $98.7B

TRENDING COINS ON COINGECKO:
  1. Sui (SUI) — Rank #14 — 24h: +5.2%
  2. Turbo (TURBO) — Rank #? — 24h: -3.8%

TOP 10 BY MARKET CAP:
  Bitcoin (BTC): $67,432.25 | 24h: +1.2% | MCap: $1,330.0B
  Ethereum (ETH): $3,250.50 | 24h: +0.0% | MCap: $391.0B
  Solana (SOL): $142.00 | 24h: -2.4% | MCap: $65.5B

BIGGEST MOVERS (top 20):
  🟢 Top gainer: Bitcoin (BTC) +1.2%
  🔴 Top loser: Solana (SOL) -2.4%

USER WATCHLIST TOPICS: solana, etf flows
`
	got := BuildBriefing(input)
	if got != want {
		t.Errorf("briefing mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildBriefingAllSourcesUnavailable(t *testing.T) {
	t.Parallel()

	got := BuildBriefing(Input{
		CollectedAt: time.Date(2026, time.February, 14, 7, 5, 0, 0, time.UTC),
	})

	want := `Data collected at: 2026-02-14 07:05 UTC

GLOBAL MARKET DATA: unavailable

TRENDING COINS: unavailable

TOP COINS: unavailable
`
	if got != want {
		t.Errorf("briefing mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildBriefingTrendingListsAtMostTen(t *testing.T) {
	t.Parallel()

	var trending []market.TrendingCoin
	for i := 0; i < 14; i++ {
		trending = append(trending, market.TrendingCoin{
			Name:          fmt.Sprintf("Coin%d", i),
			Symbol:        fmt.Sprintf("C%d", i),
			MarketCapRank: i + 1,
		})
	}
	got := BuildBriefing(Input{Trending: trending})

	if !strings.Contains(got, "  10. Coin9 (C9)") {
		t.Error("tenth trending coin missing")
	}
	if strings.Contains(got, "  11.") {
		t.Error("trending list ran past ten entries")
	}
}

func TestBuildBriefingMoversScanBeyondTopTen(t *testing.T) {
	t.Parallel()

	var coins []market.Coin
	for i := 0; i < 12; i++ {
		coins = append(coins, market.Coin{
			Name:           fmt.Sprintf("Coin%d", i),
			Symbol:         fmt.Sprintf("c%d", i),
			CurrentPrice:   100,
			MarketCap:      1_000_000_000,
			PriceChange24h: change(float64(i) / 10),
		})
	}
	// The big mover ranks eleventh, outside the listed ten.
	coins[10].PriceChange24h = change(41.5)

	got := BuildBriefing(Input{TopCoins: coins})

	if strings.Contains(got, "  Coin10 (C10):") {
		t.Error("eleventh coin should not be listed in the top ten")
	}
	if !strings.Contains(got, "🟢 Top gainer: Coin10 (C10) +41.5%") {
		t.Errorf("gainer not taken from the full list:\n%s", got)
	}
	if !strings.Contains(got, "🔴 Top loser: Coin0 (C0) +0.0%") {
		t.Errorf("loser mismatch:\n%s", got)
	}
}

func TestBuildBriefingMoversOmittedWithoutChangeData(t *testing.T) {
	t.Parallel()

	got := BuildBriefing(Input{TopCoins: []market.Coin{
		{Name: "Bitcoin", Symbol: "btc", CurrentPrice: 67_000, MarketCap: 1_330_000_000_000},
	}})

	if !strings.Contains(got, "  Bitcoin (BTC): $67,000.00 | 24h: +0.0% | MCap: $1,330.0B") {
		t.Errorf("coin without change data renders wrong:\n%s", got)
	}
	if strings.Contains(got, "BIGGEST MOVERS") {
		t.Error("movers section rendered with no change data at all")
	}
}
