// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridgeconf

import "strconv"

// PlaceholderBotToken is written when no bot token is configured. It
// keeps the file syntactically valid; courier refuses to start the
// Telegram transport until it is replaced.
const PlaceholderBotToken = "REPLACE_ME"

// Config is the complete courier configuration document. Field order
// matters for encoding: top-level scalars precede the tables. The
// document itself is TOML; the json tags serve the operator CLI's
// --json views.
type Config struct {
	// Engine selects the AI engine courier shells out to.
	Engine string `toml:"engine" json:"engine"`

	// Transport selects the chat transport.
	Transport string `toml:"transport" json:"transport"`

	Transports TransportsConfig `toml:"transports" json:"transports"`
	Engines    EnginesConfig    `toml:"engines" json:"engines"`
}

// TransportsConfig holds per-transport sections.
type TransportsConfig struct {
	Telegram TelegramConfig `toml:"telegram" json:"telegram"`
}

// TelegramConfig configures the Telegram transport.
type TelegramConfig struct {
	// BotToken is the Telegram bot API token.
	BotToken string `toml:"bot_token" json:"bot_token"`

	// ChatID is the numeric chat courier is allowed to serve. courier
	// rejects a quoted value here, so it must encode as a TOML
	// integer.
	ChatID int64 `toml:"chat_id" json:"chat_id"`

	// CoalesceWindowSeconds batches rapid-fire agent output into one
	// message.
	CoalesceWindowSeconds int `toml:"coalesce_window_seconds" json:"coalesce_window_seconds"`

	// MaxMessageBytes caps outgoing message size before chunking.
	MaxMessageBytes int `toml:"max_message_bytes" json:"max_message_bytes"`

	// StreamUpdates edits the in-flight message as the engine streams
	// instead of waiting for completion.
	StreamUpdates bool `toml:"stream_updates" json:"stream_updates"`
}

// EnginesConfig holds per-engine sections.
type EnginesConfig struct {
	Claude ClaudeEngineConfig `toml:"claude" json:"claude"`
	Codex  CodexEngineConfig  `toml:"codex" json:"codex"`
}

// ClaudeEngineConfig configures the claude engine.
type ClaudeEngineConfig struct {
	Model        string   `toml:"model" json:"model"`
	AllowedTools []string `toml:"allowed_tools" json:"allowed_tools"`

	// MaxBudgetUSD aborts a session that exceeds this API spend.
	MaxBudgetUSD float64 `toml:"max_budget_usd" json:"max_budget_usd"`
}

// CodexEngineConfig configures the codex engine.
type CodexEngineConfig struct {
	Model        string   `toml:"model" json:"model"`
	AllowedTools []string `toml:"allowed_tools" json:"allowed_tools"`

	// FullAuto runs without per-command approval prompts.
	FullAuto bool `toml:"full_auto" json:"full_auto"`
}

// Params are the externally-supplied values; everything else in the
// document is a fixed operational default.
type Params struct {
	// BotToken is the raw bot token as supplied, possibly wrapped in
	// literal quotes.
	BotToken string

	// ChatID is the raw chat id as supplied, possibly quoted and
	// possibly non-numeric.
	ChatID string
}

// Render builds the full configuration from params: strips one matched
// pair of surrounding quotes from each supplied value, parses the chat
// id to an integer, and substitutes placeholders where values are
// missing or unusable. Render never fails; semantic validation belongs
// to courier.
func Render(params Params) Config {
	botToken := StripQuotes(params.BotToken)
	if botToken == "" {
		botToken = PlaceholderBotToken
	}

	// Placeholder 0 when missing or non-numeric. The orchestrator
	// logs the degradation; the file stays parseable either way.
	chatID, err := strconv.ParseInt(StripQuotes(params.ChatID), 10, 64)
	if err != nil {
		chatID = 0
	}

	return Config{
		Engine:    "claude",
		Transport: "telegram",
		Transports: TransportsConfig{
			Telegram: TelegramConfig{
				BotToken:              botToken,
				ChatID:                chatID,
				CoalesceWindowSeconds: 5,
				MaxMessageBytes:       4096,
				StreamUpdates:         true,
			},
		},
		Engines: EnginesConfig{
			Claude: ClaudeEngineConfig{
				Model: "claude-sonnet-4-5",
				AllowedTools: []string{
					"Bash", "Read", "Write", "Edit", "Glob", "Grep",
					"WebFetch", "WebSearch",
				},
				MaxBudgetUSD: 10.0,
			},
			Codex: CodexEngineConfig{
				Model:        "codex-mini-latest",
				AllowedTools: []string{"shell", "apply_patch"},
				FullAuto:     true,
			},
		},
	}
}

// StripQuotes removes one matched pair of surrounding single or double
// quotes. Unmatched or interior quotes are left alone: the goal is to
// undo a hosting UI wrapping the value, not to interpret it.
func StripQuotes(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first != last {
		return value
	}
	if first == '"' || first == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}
