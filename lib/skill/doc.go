// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package skill manages the vault's skills directory: the baseline
// bundle fetched on first boot, the locally seeded scheduler skill,
// and manifest listing for the operator CLI and doctor.
//
// A skill is a directory under the vault's skills directory containing
// a SKILL.md manifest: YAML frontmatter (name, description) followed
// by a markdown body the agent reads when the skill is invoked. The
// skills directory is symlinked into the agent config home by
// lib/vault, so anything installed here is immediately visible to the
// agent.
//
// Installation follows the vault presence rule: a bundle directory
// that already exists is never updated, repaired, or inspected. The
// vault belongs to the user, and re-fetching over a directory they may
// have edited would destroy their changes.
package skill
