// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides steward's standard CBOR encoding configuration.
//
// steward uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: provider HTTP APIs, CLI --json
//     output.
//   - CBOR for steward's own on-disk state: the bootstrap receipt
//     written at the end of every convergence run and read back by
//     the doctor command.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, so two receipts
// describing the same run compare equal as raw files.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Struct tag rule: receipt types carry `cbor` tags (they are only ever
// CBOR); types that also appear in CLI --json output carry `json` tags,
// which fxamacker/cbor reads as a fallback.
package codec
