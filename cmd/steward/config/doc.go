// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config implements "steward config": rendering the courier
// configuration from the environment outside a full bootstrap, and
// inspecting the file courier is currently running on. The show
// subcommand masks the bot token; the raw file stays mode 0600.
package config
