// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/steward/lib/github"
	"github.com/bureau-foundation/steward/lib/vault"
)

// Mirror identifies one configured repository and where its working
// copy lives.
type Mirror struct {
	// Identifier is the configured "owner/name" form.
	Identifier string

	// Owner is everything before the last slash.
	Owner string

	// Name is the trailing path segment, which doubles as the
	// directory name under the repos root.
	Name string

	// Directory is the absolute working copy path.
	Directory string
}

// ParseIdentifier splits an "owner/name" repository identifier. The
// owner may itself contain slashes; the name is the trailing segment.
func ParseIdentifier(identifier string) (owner, name string, err error) {
	index := strings.LastIndex(identifier, "/")
	if index <= 0 || index == len(identifier)-1 {
		return "", "", fmt.Errorf("repository identifier %q is not in owner/name form", identifier)
	}
	return identifier[:index], identifier[index+1:], nil
}

// Syncer ensures each configured repository has a local working copy.
type Syncer struct {
	// ReposDir is the directory mirrors are cloned under.
	ReposDir string

	// Token is the optional GitHub token embedded in clone URLs. It
	// is scrubbed from any error or log output.
	Token string

	// Git runs the clone commands. Required.
	Git *Git

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Sync processes the identifier list in order. Presence of the target
// directory is the sole check: an existing directory is skipped
// without any process invocation, anything else is cloned. The first
// clone failure aborts the remainder. All identifiers are validated
// before any network activity.
func (s *Syncer) Sync(ctx context.Context, identifiers []string) ([]vault.Outcome, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mirrors := make([]Mirror, 0, len(identifiers))
	for _, identifier := range identifiers {
		owner, name, err := ParseIdentifier(identifier)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, Mirror{
			Identifier: identifier,
			Owner:      owner,
			Name:       name,
			Directory:  filepath.Join(s.ReposDir, name),
		})
	}

	var outcomes []vault.Outcome
	for _, mirror := range mirrors {
		outcome := vault.Outcome{Path: mirror.Directory, Kind: vault.KindRepository}

		if _, err := os.Stat(mirror.Directory); err == nil {
			outcome.Action = vault.ActionSkipped
			outcomes = append(outcomes, outcome)
			logger.Info("repository already present",
				"repository", mirror.Identifier,
				"directory", mirror.Directory,
			)
			continue
		} else if !os.IsNotExist(err) {
			return outcomes, fmt.Errorf("inspecting %q: %w", mirror.Directory, err)
		}

		if err := os.MkdirAll(s.ReposDir, 0755); err != nil {
			return outcomes, fmt.Errorf("creating repos directory %q: %w", s.ReposDir, err)
		}

		url := github.CloneURL(mirror.Owner, mirror.Name, s.Token)
		if err := s.Git.Clone(ctx, url, mirror.Directory); err != nil {
			return outcomes, fmt.Errorf("syncing %s: %w", mirror.Identifier, s.scrub(err))
		}

		outcome.Action = vault.ActionApplied
		outcomes = append(outcomes, outcome)
		logger.Info("repository cloned",
			"repository", mirror.Identifier,
			"directory", mirror.Directory,
		)
	}

	return outcomes, nil
}

// scrub replaces the token anywhere in the error text. git echoes the
// remote URL in some failure messages, and the URL embeds the token
// (in URL-escaped form, so both spellings are removed).
func (s *Syncer) scrub(err error) error {
	if s.Token == "" {
		return err
	}
	text := err.Error()
	cleaned := strings.ReplaceAll(text, s.Token, "***")
	cleaned = strings.ReplaceAll(cleaned, url.QueryEscape(s.Token), "***")
	if cleaned == text {
		return err
	}
	return fmt.Errorf("%s", cleaned)
}
