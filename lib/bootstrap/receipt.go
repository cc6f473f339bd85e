// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bureau-foundation/steward/lib/codec"
	"github.com/bureau-foundation/steward/lib/credential"
	"github.com/bureau-foundation/steward/lib/vault"
)

// receiptVersion is bumped when the receipt schema changes shape in a
// way doctor has to distinguish.
const receiptVersion = 1

// Receipt records one bootstrap run: per-step outcomes, warnings, and
// timing. It carries no secrets. doctor reads it to tell pristine
// seeds from user-modified files and to date the last run.
type Receipt struct {
	Version    int          `json:"version" cbor:"1,keyasint"`
	StartedAt  time.Time    `json:"started_at" cbor:"2,keyasint"`
	FinishedAt time.Time    `json:"finished_at" cbor:"3,keyasint"`
	Steps      []StepRecord `json:"steps" cbor:"4,keyasint"`
}

// StepRecord is one orchestration step's result set. Only the fields
// a step produces are populated: reconciliation steps fill Outcomes,
// the auth step fills Credentials.
type StepRecord struct {
	Name        string              `json:"name" cbor:"1,keyasint"`
	Outcomes    []vault.Outcome     `json:"outcomes,omitempty" cbor:"2,keyasint,omitempty"`
	Credentials []credential.Result `json:"credentials,omitempty" cbor:"3,keyasint,omitempty"`
	Warnings    []string            `json:"warnings,omitempty" cbor:"4,keyasint,omitempty"`
	Elapsed     time.Duration       `json:"elapsed" cbor:"5,keyasint"`
}

// Step returns the named step record, or nil when the receipt has
// none.
func (r *Receipt) Step(name string) *StepRecord {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}

// Applied returns the subset of the step's outcomes that created
// their node.
func (record *StepRecord) Applied() []vault.Outcome {
	var applied []vault.Outcome
	for _, outcome := range record.Outcomes {
		if outcome.Applied() {
			applied = append(applied, outcome)
		}
	}
	return applied
}

// WriteReceipt encodes the receipt as deterministic CBOR and writes it
// atomically, creating the parent directory as needed. Mode 0644; the
// receipt is diagnostic state, not a secret.
func WriteReceipt(path string, receipt *Receipt) error {
	data, err := codec.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating receipt directory: %w", err)
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating temporary receipt: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary receipt: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary receipt: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary receipt: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming receipt into place: %w", err)
	}

	if parent, err := os.Open(filepath.Dir(path)); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

// ReadReceipt decodes a previously written receipt.
func ReadReceipt(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var receipt Receipt
	if err := codec.Unmarshal(data, &receipt); err != nil {
		return nil, fmt.Errorf("decoding receipt %s: %w", path, err)
	}
	return &receipt, nil
}
