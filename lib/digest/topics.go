// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
)

// LoadWatchlist reads the optional vault watchlist. The file is JSONC
// so the user can annotate it:
//
//	{
//	  // woven into the morning digest
//	  "topics": ["solana", "eth etf flows"]
//	}
//
// An absent file is not an error; the digest just runs without vault
// topics.
func LoadWatchlist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}
	var watchlist struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &watchlist); err != nil {
		return nil, fmt.Errorf("parsing watchlist %s: %w", path, err)
	}
	return watchlist.Topics, nil
}

// Topics merges the comma-separated environment value with the vault
// watchlist, environment first, duplicates and blanks dropped.
func Topics(environment string, watchlist []string) []string {
	var topics []string
	for _, topic := range strings.Split(environment, ",") {
		topics = appendTopic(topics, topic)
	}
	for _, topic := range watchlist {
		topics = appendTopic(topics, topic)
	}
	return topics
}

func appendTopic(topics []string, topic string) []string {
	topic = strings.TrimSpace(topic)
	if topic == "" || slices.Contains(topics, topic) {
		return topics
	}
	return append(topics, topic)
}
