// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vault

// Action says whether a reconciliation changed the filesystem.
type Action string

const (
	// ActionApplied means the node was absent and this run created it.
	ActionApplied Action = "applied"

	// ActionSkipped means something already existed at the path and
	// was left untouched.
	ActionSkipped Action = "skipped"
)

// Kind identifies what sort of node a reconciliation manages.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindFile      Kind = "file"
	KindSymlink   Kind = "symlink"

	// KindBundle marks a skill bundle installation: one outcome
	// covering the whole extracted directory.
	KindBundle Kind = "bundle"

	// KindRepository marks a repository mirror: one outcome covering
	// the whole working copy.
	KindRepository Kind = "repository"
)

// Outcome records one reconciliation decision. Outcomes are embedded in
// the bootstrap receipt (CBOR) and surfaced by the operator CLI (JSON),
// hence the dual tags.
type Outcome struct {
	// Path is the absolute path the decision applied to.
	Path string `json:"path" cbor:"1,keyasint"`

	// Kind is the node type managed at Path.
	Kind Kind `json:"kind" cbor:"2,keyasint"`

	// Action records whether this run created the node.
	Action Action `json:"action" cbor:"3,keyasint"`

	// ContentHash is the hex BLAKE3 digest of content written by an
	// applied file outcome. Empty for directories, symlinks, bundles,
	// and all skips: skipped files are not read, so their content is
	// never observed, let alone hashed.
	ContentHash string `json:"content_hash,omitempty" cbor:"4,keyasint,omitempty"`
}

// Applied reports whether this outcome created its node.
func (o Outcome) Applied() bool {
	return o.Action == ActionApplied
}
