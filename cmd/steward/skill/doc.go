// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package skill implements "steward skill": inspecting the skills
// installed in the vault. Listing reads SKILL.md manifests the same
// way the agent runtime discovers them through the skills symlink.
package skill
