// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bureau-foundation/steward/lib/bridgeconf"
	"github.com/bureau-foundation/steward/lib/secret"
	"github.com/bureau-foundation/steward/lib/vault"
)

// DesiredState is the environment-derived configuration for one run,
// parsed once at startup and immutable afterwards. Values are kept as
// supplied; consumers normalize at their own boundaries (the courier
// config strips hosting-UI quotes, the repo syncer validates
// identifiers).
type DesiredState struct {
	// DataDir is the persistent volume root.
	DataDir string

	// VaultDir is the vault root, usually under DataDir.
	VaultDir string

	// AgentHome is the agent runtime's config home.
	AgentHome string

	// TelegramBotToken is the bot identity token. Nil when unset.
	TelegramBotToken *secret.Buffer

	// TelegramChatID is the raw destination chat id, possibly quoted
	// and possibly non-numeric.
	TelegramChatID string

	// AnthropicKey and OpenAIKey are the model-provider keys. Nil
	// when unset.
	AnthropicKey *secret.Buffer
	OpenAIKey    *secret.Buffer

	// GitHubToken is the source-control token. Nil when unset.
	GitHubToken *secret.Buffer

	// Repos is the configured owner/name repository list.
	Repos []string

	// DigestHour is the daily digest fire hour, 0-23.
	DigestHour int

	// DigestCron overrides the hourly-derived schedule with a full
	// five-field expression. Empty when unset.
	DigestCron string

	// DigestTopics is the raw comma-separated topic filter.
	DigestTopics string

	// DigestModel selects the Anthropic model for the digest summary.
	DigestModel string

	// SkillBundleURL is the baseline skill bundle archive URL. Empty
	// skips the install.
	SkillBundleURL string

	// SkillBundleName overrides the bundle directory name derived
	// from the URL.
	SkillBundleName string
}

// FromEnvironment parses the process environment into a DesiredState.
// Every secret honors a *_FILE indirection: when NAME_FILE is set the
// value is read from that path instead of the environment block. The
// caller owns the returned state's secret buffers; Close releases
// them.
func FromEnvironment() (*DesiredState, error) {
	state := &DesiredState{
		TelegramChatID: os.Getenv("STEWARD_TELEGRAM_CHAT_ID"),
		DigestCron:     os.Getenv("STEWARD_DIGEST_CRON"),
		DigestTopics:   os.Getenv("STEWARD_DIGEST_TOPICS"),
		DigestModel:    envOr("STEWARD_DIGEST_MODEL", "claude-sonnet-4-5"),

		SkillBundleURL:  os.Getenv("STEWARD_SKILL_BUNDLE_URL"),
		SkillBundleName: os.Getenv("STEWARD_SKILL_BUNDLE_NAME"),
	}
	parsed := false
	defer func() {
		if !parsed {
			state.Close()
		}
	}()

	state.DataDir = envOr("STEWARD_DATA_DIR", "/data")
	state.VaultDir = envOr("STEWARD_VAULT_DIR", filepath.Join(state.DataDir, "vault"))

	state.AgentHome = os.Getenv("STEWARD_AGENT_HOME")
	if state.AgentHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving agent config home: %w", err)
		}
		state.AgentHome = filepath.Join(home, ".claude")
	}

	state.Repos = splitList(os.Getenv("STEWARD_REPOS"))

	hourValue := envOr("STEWARD_DIGEST_HOUR", "7")
	hour, err := strconv.Atoi(hourValue)
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("STEWARD_DIGEST_HOUR %q: must be an hour 0-23", hourValue)
	}
	state.DigestHour = hour

	for _, load := range []struct {
		name   string
		target **secret.Buffer
	}{
		{"STEWARD_TELEGRAM_BOT_TOKEN", &state.TelegramBotToken},
		{"ANTHROPIC_API_KEY", &state.AnthropicKey},
		{"OPENAI_API_KEY", &state.OpenAIKey},
		{"GITHUB_TOKEN", &state.GitHubToken},
	} {
		buffer, err := secretFromEnvironment(load.name)
		if err != nil {
			return nil, err
		}
		*load.target = buffer
	}

	parsed = true
	return state, nil
}

// Close releases the state's secret buffers.
func (s *DesiredState) Close() error {
	var errs []error
	for _, buffer := range []*secret.Buffer{
		s.TelegramBotToken, s.AnthropicKey, s.OpenAIKey, s.GitHubToken,
	} {
		if buffer != nil {
			errs = append(errs, buffer.Close())
		}
	}
	s.TelegramBotToken, s.AnthropicKey, s.OpenAIKey, s.GitHubToken = nil, nil, nil, nil
	return errors.Join(errs...)
}

// Tree returns the vault scaffold roots.
func (s *DesiredState) Tree() vault.Tree {
	return vault.Tree{VaultDir: s.VaultDir, AgentHome: s.AgentHome}
}

// SkillsDir returns the vault's skills directory.
func (s *DesiredState) SkillsDir() string {
	return filepath.Join(s.VaultDir, "skills")
}

// ReposDir returns the repository mirror root.
func (s *DesiredState) ReposDir() string {
	return filepath.Join(s.DataDir, "repos")
}

// StateDir returns the engine-owned state directory on the volume.
func (s *DesiredState) StateDir() string {
	return filepath.Join(s.DataDir, ".steward")
}

// DigestEnvPath returns the restricted environment file sourced by the
// digest cron job.
func (s *DesiredState) DigestEnvPath() string {
	return filepath.Join(s.StateDir(), "digest.env")
}

// ReceiptPath returns the bootstrap receipt location.
func (s *DesiredState) ReceiptPath() string {
	return filepath.Join(s.StateDir(), "receipt.cbor")
}

// DigestLogPath returns the vault log file the digest job appends to.
func (s *DesiredState) DigestLogPath() string {
	return filepath.Join(s.VaultDir, "logs", "daily", "digest.log")
}

// WatchlistPath returns the optional vault watchlist consulted for
// digest topics.
func (s *DesiredState) WatchlistPath() string {
	return filepath.Join(s.VaultDir, "resources", "watchlist.jsonc")
}

// DigestSchedule returns the effective five-field schedule: the full
// override when supplied, otherwise daily at the digest hour.
func (s *DesiredState) DigestSchedule() string {
	if s.DigestCron != "" {
		return s.DigestCron
	}
	return fmt.Sprintf("0 %d * * *", s.DigestHour)
}

// HasModelKey reports whether at least one model-provider key is
// configured. Without one the digest job has nothing to run with and
// is not scheduled.
func (s *DesiredState) HasModelKey() bool {
	return s.AnthropicKey != nil || s.OpenAIKey != nil
}

// TelegramTarget returns the delivery destination when both the bot
// token and a numeric chat id are usably configured. Hosting-UI quote
// wrapping is stripped, matching what the courier config embeds.
func (s *DesiredState) TelegramTarget() (token string, chatID int64, ok bool) {
	if s.TelegramBotToken == nil {
		return "", 0, false
	}
	token = bridgeconf.StripQuotes(s.TelegramBotToken.String())
	if token == "" || token == bridgeconf.PlaceholderBotToken {
		return "", 0, false
	}
	chatID, err := strconv.ParseInt(bridgeconf.StripQuotes(s.TelegramChatID), 10, 64)
	if err != nil || chatID == 0 {
		return "", 0, false
	}
	return token, chatID, true
}

// secretFromEnvironment loads one secret, honoring the NAME_FILE
// indirection. Unset or empty means no credential, not an error.
func secretFromEnvironment(name string) (*secret.Buffer, error) {
	if path := os.Getenv(name + "_FILE"); path != "" {
		buffer, err := secret.ReadFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s_FILE: %w", name, err)
		}
		return buffer, nil
	}
	value := os.Getenv(name)
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	buffer, err := secret.NewFromBytes([]byte(strings.TrimSpace(value)))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	return buffer, nil
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// splitList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
