// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"time"

	"github.com/bureau-foundation/steward/lib/bridgeconf"
	"github.com/bureau-foundation/steward/lib/clock"
	"github.com/bureau-foundation/steward/lib/credential"
	"github.com/bureau-foundation/steward/lib/cron"
	"github.com/bureau-foundation/steward/lib/crontab"
	"github.com/bureau-foundation/steward/lib/git"
	"github.com/bureau-foundation/steward/lib/secret"
	"github.com/bureau-foundation/steward/lib/skill"
	"github.com/bureau-foundation/steward/lib/vault"
)

// fallbackDigestBinary is used when steward-digest is not on PATH.
// The container image installs all three binaries here.
const fallbackDigestBinary = "/usr/local/bin/steward-digest"

// CredentialProvisioner performs the auth handshakes.
type CredentialProvisioner interface {
	Provision(ctx context.Context, params credential.Params) []credential.Result
}

// RepoSyncer mirrors the configured repositories.
type RepoSyncer interface {
	Sync(ctx context.Context, identifiers []string) ([]vault.Outcome, error)
}

// DaemonStarter starts the cron daemon.
type DaemonStarter interface {
	Start(ctx context.Context) error
}

// Engine runs the bootstrap sequence against a DesiredState. Nil
// component fields select the real implementations; tests substitute
// fakes.
type Engine struct {
	// State is the parsed environment. Required.
	State *DesiredState

	// HomeDir anchors the courier config and the git credential
	// store. Required.
	HomeDir string

	// ConfigPath overrides the courier config location (default
	// $HOME/.config/courier/courier.toml).
	ConfigPath string

	// DigestBinary overrides the digest binary path written into the
	// cron line (default: steward-digest on PATH, then the image's
	// install location).
	DigestBinary string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Clock supplies receipt timestamps and the next-fire-time log
	// line. Defaults to the real clock.
	Clock clock.Clock

	// Provisioner performs the auth handshakes.
	Provisioner CredentialProvisioner

	// Installer fetches the baseline skill bundle.
	Installer *skill.Installer

	// Syncer clones the configured repositories.
	Syncer RepoSyncer

	// Crontab is the job table the digest line is upserted into.
	Crontab crontab.Table

	// Daemon starts the cron daemon.
	Daemon DaemonStarter

	// HTTPClient is used for the bundle fetch when Installer is nil.
	HTTPClient *http.Client
}

// step is one orchestration stage. Steps run strictly in order; a
// returned error aborts the sequence (the fail-fast tier), while
// degraded conditions land in the record's warnings.
type step struct {
	name string
	run  func(context.Context, *StepRecord) error
}

// Run executes the sequence and writes the receipt. The receipt write
// happens only after every step succeeded; a write failure is logged
// and swallowed, because the receipt is advisory state for doctor,
// not part of the convergence contract.
func (e *Engine) Run(ctx context.Context) (*Receipt, error) {
	if e.State == nil {
		return nil, fmt.Errorf("bootstrap: no desired state")
	}
	if e.HomeDir == "" {
		return nil, fmt.Errorf("bootstrap: no home directory")
	}

	receipt := &Receipt{Version: receiptVersion, StartedAt: e.clock().Now()}

	steps := []step{
		{"config", e.materializeConfig},
		{"vault", e.scaffoldVault},
		{"auth", e.provisionCredentials},
		{"skills", e.installSkills},
		{"cron", e.scheduleDigest},
		{"repos", e.syncRepositories},
	}
	for _, stage := range steps {
		if err := ctx.Err(); err != nil {
			return receipt, err
		}
		record := StepRecord{Name: stage.name}
		startedAt := e.clock().Now()
		err := stage.run(ctx, &record)
		record.Elapsed = e.clock().Now().Sub(startedAt)
		receipt.Steps = append(receipt.Steps, record)
		if err != nil {
			return receipt, fmt.Errorf("%s: %w", stage.name, err)
		}
		e.logger().Info("bootstrap step complete",
			"step", stage.name,
			"applied", len(record.Applied()),
			"outcomes", len(record.Outcomes),
			"warnings", len(record.Warnings),
		)
	}
	receipt.FinishedAt = e.clock().Now()

	if err := WriteReceipt(e.State.ReceiptPath(), receipt); err != nil {
		e.logger().Warn("receipt write failed", "path", e.State.ReceiptPath(), "error", err)
	}
	return receipt, nil
}

// materializeConfig renders courier.toml from the desired state,
// overwriting whatever was there. The prior file has no authority;
// this is what makes credential rotation a plain restart.
func (e *Engine) materializeConfig(ctx context.Context, record *StepRecord) error {
	params := bridgeconf.Params{ChatID: e.State.TelegramChatID}
	if e.State.TelegramBotToken != nil {
		params.BotToken = e.State.TelegramBotToken.String()
	}
	config := bridgeconf.Render(params)

	if config.Transports.Telegram.BotToken == bridgeconf.PlaceholderBotToken {
		warn := "no Telegram bot token; courier config written with placeholder"
		record.Warnings = append(record.Warnings, warn)
		e.logger().Warn(warn, "variable", "STEWARD_TELEGRAM_BOT_TOKEN")
	}
	if config.Transports.Telegram.ChatID == 0 {
		warn := "no usable Telegram chat id; courier config written with placeholder"
		record.Warnings = append(record.Warnings, warn)
		e.logger().Warn(warn, "variable", "STEWARD_TELEGRAM_CHAT_ID")
	}

	path := e.configPath()
	if err := bridgeconf.Write(path, config); err != nil {
		return err
	}
	record.Outcomes = append(record.Outcomes, vault.Outcome{
		Path:   path,
		Kind:   vault.KindFile,
		Action: vault.ActionApplied,
	})
	e.logger().Info("courier config written", "path", path)
	return nil
}

// scaffoldVault converges the vault tree and the agent home.
func (e *Engine) scaffoldVault(ctx context.Context, record *StepRecord) error {
	outcomes, err := vault.Scaffold(e.State.Tree())
	record.Outcomes = outcomes
	return err
}

// provisionCredentials runs the auth handshakes. Handshake failures
// are recorded, never fatal: the container must come up even with a
// revoked token, so the operator can fix it from the chat side.
func (e *Engine) provisionCredentials(ctx context.Context, record *StepRecord) error {
	provisioner := e.Provisioner
	if provisioner == nil {
		provisioner = &credential.Provisioner{
			HomeDir: e.HomeDir,
			Git:     git.New(),
			Logger:  e.logger(),
		}
	}
	record.Credentials = provisioner.Provision(ctx, credential.Params{
		GitHubToken:  e.State.GitHubToken,
		AnthropicKey: e.State.AnthropicKey,
		OpenAIKey:    e.State.OpenAIKey,
	})
	return nil
}

// installSkills ensures the baseline bundle and the built-in scheduler
// skill exist under the vault.
func (e *Engine) installSkills(ctx context.Context, record *StepRecord) error {
	installer := e.Installer
	if installer == nil {
		installer = &skill.Installer{
			SkillsDir:  e.State.SkillsDir(),
			HTTPClient: e.HTTPClient,
		}
	}
	outcome, err := installer.InstallBundle(ctx, skill.BundleParams{
		URL:  e.State.SkillBundleURL,
		Name: e.State.SkillBundleName,
	})
	if err != nil {
		return err
	}
	record.Outcomes = append(record.Outcomes, outcome)

	outcome, err = skill.SeedScheduler(e.State.SkillsDir())
	if err != nil {
		return err
	}
	record.Outcomes = append(record.Outcomes, outcome)
	return nil
}

// scheduleDigest starts the cron daemon and maintains the digest job
// line. Without a model-provider key the job is not scheduled: the
// digest would have nothing to summarize with, and the no-key case is
// a deliberate deployment mode, not an error.
func (e *Engine) scheduleDigest(ctx context.Context, record *StepRecord) error {
	daemon := e.Daemon
	if daemon == nil {
		daemon = &crontab.DaemonStarter{Logger: e.logger()}
	}
	if err := daemon.Start(ctx); err != nil {
		return err
	}

	if !e.State.HasModelKey() {
		warn := "no model-provider key; digest job not scheduled"
		record.Warnings = append(record.Warnings, warn)
		e.logger().Info(warn)
		return nil
	}

	expression := e.State.DigestSchedule()
	schedule, err := cron.Parse(expression)
	if err != nil {
		return fmt.Errorf("digest schedule %q: %w", expression, err)
	}

	envPath := e.State.DigestEnvPath()
	if err := secret.WriteEnvFile(envPath, e.digestEnvironment()); err != nil {
		return err
	}
	record.Outcomes = append(record.Outcomes, vault.Outcome{
		Path:   envPath,
		Kind:   vault.KindFile,
		Action: vault.ActionApplied,
	})

	job := crontab.DigestJob{
		Schedule: expression,
		EnvFile:  envPath,
		Binary:   e.digestBinary(),
		LogFile:  e.State.DigestLogPath(),
	}
	table := e.Crontab
	if table == nil {
		table = crontab.NewSystemTable()
	}
	if err := crontab.Upsert(ctx, table, crontab.DigestMarker, job.Line()); err != nil {
		return err
	}

	next, err := schedule.Next(e.clock().Now())
	if err != nil {
		return fmt.Errorf("digest schedule %q: %w", expression, err)
	}
	e.logger().Info("digest job scheduled",
		"schedule", expression,
		"next_run", next.Format(time.RFC3339),
	)
	return nil
}

// syncRepositories mirrors the configured repository list.
func (e *Engine) syncRepositories(ctx context.Context, record *StepRecord) error {
	syncer := e.Syncer
	if syncer == nil {
		gitSyncer := &git.Syncer{
			ReposDir: e.State.ReposDir(),
			Git:      git.New(),
			Logger:   e.logger(),
		}
		if e.State.GitHubToken != nil {
			gitSyncer.Token = e.State.GitHubToken.String()
		}
		syncer = gitSyncer
	}
	outcomes, err := syncer.Sync(ctx, e.State.Repos)
	record.Outcomes = outcomes
	return err
}

// digestEnvironment assembles the variables the digest job sources.
// Only configured values are written; the digest binary applies the
// same defaults as the bootstrap for the rest.
func (e *Engine) digestEnvironment() []secret.Var {
	var vars []secret.Var
	if e.State.AnthropicKey != nil {
		vars = append(vars, secret.Var{Name: "ANTHROPIC_API_KEY", Value: e.State.AnthropicKey.String()})
	}
	if e.State.OpenAIKey != nil {
		vars = append(vars, secret.Var{Name: "OPENAI_API_KEY", Value: e.State.OpenAIKey.String()})
	}
	if token, chatID, ok := e.State.TelegramTarget(); ok {
		vars = append(vars,
			secret.Var{Name: "STEWARD_TELEGRAM_BOT_TOKEN", Value: token},
			secret.Var{Name: "STEWARD_TELEGRAM_CHAT_ID", Value: fmt.Sprintf("%d", chatID)},
		)
	}
	if e.State.DigestTopics != "" {
		vars = append(vars, secret.Var{Name: "STEWARD_DIGEST_TOPICS", Value: e.State.DigestTopics})
	}
	vars = append(vars,
		secret.Var{Name: "STEWARD_DIGEST_MODEL", Value: e.State.DigestModel},
		secret.Var{Name: "STEWARD_VAULT_DIR", Value: e.State.VaultDir},
	)
	return vars
}

func (e *Engine) configPath() string {
	if e.ConfigPath != "" {
		return e.ConfigPath
	}
	return bridgeconf.DefaultPath(e.HomeDir)
}

func (e *Engine) digestBinary() string {
	if e.DigestBinary != "" {
		return e.DigestBinary
	}
	if path, err := exec.LookPath("steward-digest"); err == nil {
		return path
	}
	return fallbackDigestBinary
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Engine) clock() clock.Clock {
	if e.Clock != nil {
		return e.Clock
	}
	return clock.Real()
}
