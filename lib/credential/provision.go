// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bureau-foundation/steward/lib/git"
	"github.com/bureau-foundation/steward/lib/github"
	"github.com/bureau-foundation/steward/lib/llm"
	"github.com/bureau-foundation/steward/lib/secret"
)

// Integration names as they appear in results and the boot receipt.
const (
	IntegrationGitHub    = "github"
	IntegrationAnthropic = "anthropic"
	IntegrationOpenAI    = "openai"
)

// Status classifies the outcome of provisioning one integration.
type Status string

const (
	// StatusSucceeded means the credential was validated and any side
	// effects (git identity, credential store) were applied.
	StatusSucceeded Status = "succeeded"

	// StatusFailed means the credential was supplied but rejected by
	// the provider, or a side effect could not be applied.
	StatusFailed Status = "failed"

	// StatusSkippedNoCredential means the operator supplied no
	// credential for the integration, so there was nothing to
	// validate.
	StatusSkippedNoCredential Status = "skipped_no_credential"
)

// Result records the outcome of provisioning one integration. Results
// land in the boot receipt, so they carry no secret material: Detail
// holds safe metadata such as the authenticated GitHub login, and
// Error holds the failure chain, which never includes the credential
// itself.
type Result struct {
	Integration string `json:"integration" cbor:"1,keyasint"`
	Status      Status `json:"status" cbor:"2,keyasint"`
	Detail      string `json:"detail,omitempty" cbor:"3,keyasint,omitempty"`
	Error       string `json:"error,omitempty" cbor:"4,keyasint,omitempty"`
}

// Succeeded reports whether the integration is live.
func (r Result) Succeeded() bool { return r.Status == StatusSucceeded }

// Params carries the credentials to validate. A nil buffer means the
// operator did not supply that credential.
type Params struct {
	GitHubToken  *secret.Buffer
	AnthropicKey *secret.Buffer
	OpenAIKey    *secret.Buffer
}

// GitConfigurer is the slice of lib/git used to set the global
// identity after a successful GitHub handshake.
type GitConfigurer interface {
	SetGlobalConfig(ctx context.Context, key, value string) error
}

// userFetcher is the slice of the GitHub client used for the token
// handshake.
type userFetcher interface {
	User(ctx context.Context) (*github.User, error)
}

// Provisioner validates credentials and applies their side effects.
type Provisioner struct {
	// HomeDir is the home directory that receives .git-credentials.
	HomeDir string

	// Git applies global git configuration. Usually git.New().
	Git GitConfigurer

	// Logger receives validation warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// newGitHubClient, newAnthropic, and newOpenAI build API clients
	// for a credential. Nil means the real constructors; tests
	// substitute fakes.
	newGitHubClient func(token string) (userFetcher, error)
	newAnthropic    func(key string) llm.Provider
	newOpenAI       func(key string) llm.Provider
}

// Provision validates every supplied credential and applies side
// effects for those that pass. It always returns one Result per
// integration, in a fixed order (github, anthropic, openai), and never
// aborts: a rejected credential degrades that integration and is
// logged with remediation guidance, and the rest of the boot proceeds.
func (p *Provisioner) Provision(ctx context.Context, params Params) []Result {
	return []Result{
		p.provisionGitHub(ctx, params.GitHubToken),
		p.provisionModelKey(ctx, IntegrationAnthropic, params.AnthropicKey, p.anthropicProvider, "ANTHROPIC_API_KEY"),
		p.provisionModelKey(ctx, IntegrationOpenAI, params.OpenAIKey, p.openaiProvider, "OPENAI_API_KEY"),
	}
}

func (p *Provisioner) provisionGitHub(ctx context.Context, token *secret.Buffer) Result {
	if token == nil {
		p.logger().Info("no github token supplied, skipping git identity setup")
		return Result{Integration: IntegrationGitHub, Status: StatusSkippedNoCredential}
	}

	client, err := p.gitHubClient(token.String())
	if err != nil {
		p.logger().Warn("github client setup failed", "error", err)
		return Result{Integration: IntegrationGitHub, Status: StatusFailed, Error: err.Error()}
	}

	user, err := client.User(ctx)
	if err != nil {
		p.logger().Warn("github token rejected, git pushes will not authenticate",
			"error", err,
			"remediation", "supply a valid token in GITHUB_TOKEN and restart")
		return Result{Integration: IntegrationGitHub, Status: StatusFailed, Error: err.Error()}
	}

	if err := p.configureGitIdentity(ctx, user, token); err != nil {
		p.logger().Warn("git identity configuration failed after a successful handshake",
			"login", user.Login, "error", err)
		return Result{
			Integration: IntegrationGitHub,
			Status:      StatusFailed,
			Detail:      user.Login,
			Error:       err.Error(),
		}
	}

	p.logger().Info("github token validated", "login", user.Login)
	return Result{Integration: IntegrationGitHub, Status: StatusSucceeded, Detail: user.Login}
}

// configureGitIdentity makes later git pushes from the agent work
// without prompting: global identity from the GitHub account, the
// store credential helper, and the token in the helper's store file.
// The handshake has already succeeded when this runs; a rejected token
// never mutates git state.
func (p *Provisioner) configureGitIdentity(ctx context.Context, user *github.User, token *secret.Buffer) error {
	name := user.Name
	if name == "" {
		name = user.Login
	}
	settings := [][2]string{
		{"user.name", name},
		{"user.email", user.NoreplyEmail()},
		{"credential.helper", "store"},
	}
	for _, setting := range settings {
		if err := p.Git.SetGlobalConfig(ctx, setting[0], setting[1]); err != nil {
			return err
		}
	}

	storePath := filepath.Join(p.HomeDir, ".git-credentials")
	if err := git.WriteCredentialStore(storePath, "github.com", "x-access-token", token.String()); err != nil {
		return fmt.Errorf("writing credential store: %w", err)
	}
	return nil
}

func (p *Provisioner) provisionModelKey(ctx context.Context, integration string, key *secret.Buffer, build func(string) llm.Provider, envName string) Result {
	if key == nil {
		p.logger().Info("no model API key supplied", "provider", integration)
		return Result{Integration: integration, Status: StatusSkippedNoCredential}
	}

	if err := build(key.String()).Ping(ctx); err != nil {
		p.logger().Warn("model API key rejected",
			"provider", integration,
			"error", err,
			"remediation", fmt.Sprintf("supply a valid key in %s and restart", envName))
		return Result{Integration: integration, Status: StatusFailed, Error: err.Error()}
	}

	p.logger().Info("model API key validated", "provider", integration)
	return Result{Integration: integration, Status: StatusSucceeded}
}

func (p *Provisioner) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Provisioner) gitHubClient(token string) (userFetcher, error) {
	if p.newGitHubClient != nil {
		return p.newGitHubClient(token)
	}
	return github.NewClient(github.Config{Token: token})
}

func (p *Provisioner) anthropicProvider(key string) llm.Provider {
	if p.newAnthropic != nil {
		return p.newAnthropic(key)
	}
	return llm.NewAnthropic(llm.AnthropicConfig{APIKey: key})
}

func (p *Provisioner) openaiProvider(key string) llm.Provider {
	if p.newOpenAI != nil {
		return p.newOpenAI(key)
	}
	return llm.NewOpenAI(llm.OpenAIConfig{APIKey: key})
}
