// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"context"
	"fmt"
)

// GlobalStats holds the global market statistics from /api/v3/global.
// Currency-keyed maps use lowercase codes ("usd") and coin-keyed maps
// use lowercase symbols ("btc", "eth").
type GlobalStats struct {
	// TotalMarketCap maps currency code to total market cap.
	TotalMarketCap map[string]float64 `json:"total_market_cap"`

	// TotalVolume maps currency code to 24h volume.
	TotalVolume map[string]float64 `json:"total_volume"`

	// MarketCapPercentage maps coin symbol to its dominance share.
	MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`

	// MarketCapChange24hUSD is the 24h percent change of the total
	// market cap in USD.
	MarketCapChange24hUSD float64 `json:"market_cap_change_percentage_24h_usd"`
}

// Global fetches global market statistics.
func (client *Client) Global(ctx context.Context) (*GlobalStats, error) {
	var envelope struct {
		Data *GlobalStats `json:"data"`
	}
	if err := client.get(ctx, "/api/v3/global", &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("coingecko: global response has no data object")
	}
	return envelope.Data, nil
}

// TrendingCoin is one coin from the trending searches list, flattened
// from CoinGecko's nested item envelope.
type TrendingCoin struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`

	// MarketCapRank is the coin's market cap rank; 0 means unranked.
	MarketCapRank int `json:"market_cap_rank"`

	// PriceChange24hUSD is the 24h price change percentage in USD.
	PriceChange24hUSD float64 `json:"price_change_24h_usd"`
}

// Trending fetches the coins trending in CoinGecko searches, most
// popular first.
func (client *Client) Trending(ctx context.Context) ([]TrendingCoin, error) {
	var envelope struct {
		Coins []struct {
			Item struct {
				Name          string `json:"name"`
				Symbol        string `json:"symbol"`
				MarketCapRank *int   `json:"market_cap_rank"`
				Data          struct {
					PriceChange24h map[string]float64 `json:"price_change_percentage_24h"`
				} `json:"data"`
			} `json:"item"`
		} `json:"coins"`
	}
	if err := client.get(ctx, "/api/v3/search/trending", &envelope); err != nil {
		return nil, err
	}

	coins := make([]TrendingCoin, 0, len(envelope.Coins))
	for _, entry := range envelope.Coins {
		coin := TrendingCoin{
			Name:              entry.Item.Name,
			Symbol:            entry.Item.Symbol,
			PriceChange24hUSD: entry.Item.Data.PriceChange24h["usd"],
		}
		if entry.Item.MarketCapRank != nil {
			coin.MarketCapRank = *entry.Item.MarketCapRank
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

// topCoinsQuery requests the top 20 coins by market cap with their 24h
// change, matching what the briefing renders (top 10 listed, all 20
// scanned for movers).
const topCoinsQuery = "/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=20&sparkline=false&price_change_percentage=24h"

// Coin is one market entry from /api/v3/coins/markets.
type Coin struct {
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
	MarketCap    float64 `json:"market_cap"`

	// PriceChange24h is the 24h price change percentage. Nil when
	// CoinGecko has no 24h data for the coin.
	PriceChange24h *float64 `json:"price_change_percentage_24h"`
}

// TopCoins fetches the top 20 coins by market cap, descending.
func (client *Client) TopCoins(ctx context.Context) ([]Coin, error) {
	var coins []Coin
	if err := client.get(ctx, topCoinsQuery, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}
