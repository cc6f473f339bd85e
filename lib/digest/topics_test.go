// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		environment string
		watchlist   []string
		want        []string
	}{
		{
			name: "both empty",
		},
		{
			name:        "environment only",
			environment: "bitcoin, defi",
			want:        []string{"bitcoin", "defi"},
		},
		{
			name:      "watchlist only",
			watchlist: []string{"solana"},
			want:      []string{"solana"},
		},
		{
			name:        "environment precedes watchlist",
			environment: "bitcoin",
			watchlist:   []string{"solana", "defi"},
			want:        []string{"bitcoin", "solana", "defi"},
		},
		{
			name:        "duplicates and blanks dropped",
			environment: "bitcoin,, bitcoin ,defi",
			watchlist:   []string{"defi", " ", "solana"},
			want:        []string{"bitcoin", "defi", "solana"},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := Topics(test.environment, test.watchlist)
			if !slices.Equal(got, test.want) {
				t.Errorf("Topics(%q, %v) = %v, want %v", test.environment, test.watchlist, got, test.want)
			}
		})
	}
}

func TestLoadWatchlist(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "watchlist.jsonc")
	content := `{
	// topics the digest should watch
	"topics": [
		"solana",
		"eth etf flows", // trailing comma tolerated
	],
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	topics, err := LoadWatchlist(path)
	if err != nil {
		t.Fatalf("LoadWatchlist: %v", err)
	}
	if want := []string{"solana", "eth etf flows"}; !slices.Equal(topics, want) {
		t.Errorf("topics = %v, want %v", topics, want)
	}
}

func TestLoadWatchlistMissingFile(t *testing.T) {
	t.Parallel()

	topics, err := LoadWatchlist(filepath.Join(t.TempDir(), "watchlist.jsonc"))
	if err != nil {
		t.Fatalf("LoadWatchlist on a missing file: %v", err)
	}
	if topics != nil {
		t.Errorf("topics = %v, want none", topics)
	}
}

func TestLoadWatchlistMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "watchlist.jsonc")
	if err := os.WriteFile(path, []byte(`{"topics": [unquoted]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadWatchlist(path)
	if err == nil {
		t.Fatal("LoadWatchlist accepted malformed JSONC")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}
