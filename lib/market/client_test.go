// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})
}

func TestGlobal(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/global", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if agent := request.Header.Get("User-Agent"); !strings.HasPrefix(agent, "steward/") {
			t.Errorf("User-Agent = %q, want steward/<version>", agent)
		}
		writer.Write([]byte(`{
			"data": {
				"total_market_cap": {"usd": 3421000000000.0, "eur": 3150000000000.0},
				"total_volume": {"usd": 98200000000.0},
				"market_cap_percentage": {"btc": 57.3, "eth": 11.8},
				"market_cap_change_percentage_24h_usd": -1.42
			}
		}`))
	})

	stats, err := newTestClient(t, mux).Global(context.Background())
	if err != nil {
		t.Fatalf("Global: %v", err)
	}
	if got := stats.TotalMarketCap["usd"]; got != 3421000000000.0 {
		t.Errorf("TotalMarketCap[usd] = %v", got)
	}
	if got := stats.MarketCapPercentage["btc"]; got != 57.3 {
		t.Errorf("MarketCapPercentage[btc] = %v", got)
	}
	if got := stats.MarketCapPercentage["eth"]; got != 11.8 {
		t.Errorf("MarketCapPercentage[eth] = %v", got)
	}
	if stats.MarketCapChange24hUSD != -1.42 {
		t.Errorf("MarketCapChange24hUSD = %v", stats.MarketCapChange24hUSD)
	}
	if got := stats.TotalVolume["usd"]; got != 98200000000.0 {
		t.Errorf("TotalVolume[usd] = %v", got)
	}
}

func TestGlobalMissingDataObject(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/global", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writer.Write([]byte(`{}`))
	})

	if _, err := newTestClient(t, mux).Global(context.Background()); err == nil {
		t.Fatal("Global accepted a response without a data object")
	}
}

func TestTrending(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/search/trending", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writer.Write([]byte(`{
			"coins": [
				{"item": {
					"name": "Sui", "symbol": "SUI", "market_cap_rank": 14,
					"data": {"price_change_percentage_24h": {"usd": 8.21, "eur": 7.9}}
				}},
				{"item": {
					"name": "Brand New Coin", "symbol": "BNC", "market_cap_rank": null,
					"data": {"price_change_percentage_24h": {}}
				}}
			]
		}`))
	})

	coins, err := newTestClient(t, mux).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("Trending returned %d coins, want 2", len(coins))
	}

	want := TrendingCoin{Name: "Sui", Symbol: "SUI", MarketCapRank: 14, PriceChange24hUSD: 8.21}
	if coins[0] != want {
		t.Errorf("coins[0] = %+v, want %+v", coins[0], want)
	}
	if coins[1].MarketCapRank != 0 {
		t.Errorf("unranked coin rank = %d, want 0", coins[1].MarketCapRank)
	}
	if coins[1].PriceChange24hUSD != 0 {
		t.Errorf("coin without 24h data change = %v, want 0", coins[1].PriceChange24hUSD)
	}
}

func TestTopCoins(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/coins/markets", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		query := request.URL.Query()
		for key, want := range map[string]string{
			"vs_currency":             "usd",
			"order":                   "market_cap_desc",
			"per_page":                "20",
			"sparkline":               "false",
			"price_change_percentage": "24h",
		} {
			if got := query.Get(key); got != want {
				t.Errorf("query %s = %q, want %q", key, got, want)
			}
		}
		writer.Write([]byte(`[
			{"name": "Bitcoin", "symbol": "btc", "current_price": 97123.45,
			 "market_cap": 1923000000000, "price_change_percentage_24h": -0.8},
			{"name": "Stale Coin", "symbol": "stc", "current_price": 1.0,
			 "market_cap": 12000000, "price_change_percentage_24h": null}
		]`))
	})

	coins, err := newTestClient(t, mux).TopCoins(context.Background())
	if err != nil {
		t.Fatalf("TopCoins: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("TopCoins returned %d coins, want 2", len(coins))
	}
	if coins[0].Name != "Bitcoin" || coins[0].CurrentPrice != 97123.45 {
		t.Errorf("coins[0] = %+v", coins[0])
	}
	if coins[0].PriceChange24h == nil || *coins[0].PriceChange24h != -0.8 {
		t.Errorf("coins[0].PriceChange24h = %v, want -0.8", coins[0].PriceChange24h)
	}
	if coins[1].PriceChange24h != nil {
		t.Errorf("null 24h change decoded as %v, want nil", *coins[1].PriceChange24h)
	}
}

func TestGetHTTPError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/global", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writer.WriteHeader(http.StatusTooManyRequests)
		writer.Write([]byte(`{"status": {"error_code": 429, "error_message": "Rate limit exceeded"}}`))
	})

	_, err := newTestClient(t, mux).Global(context.Background())
	if err == nil {
		t.Fatal("Global succeeded against a 429")
	}
	if !strings.Contains(err.Error(), "HTTP 429") {
		t.Errorf("error = %v, want HTTP 429", err)
	}
	if !strings.Contains(err.Error(), "Rate limit exceeded") {
		t.Errorf("error = %v, want the body snippet included", err)
	}
}

func TestGetMalformedJSON(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/search/trending", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writer.Write([]byte(`{"coins": [`))
	})

	if _, err := newTestClient(t, mux).Trending(context.Background()); err == nil {
		t.Fatal("Trending accepted malformed JSON")
	}
}
