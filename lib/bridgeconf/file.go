// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridgeconf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPath returns the courier config location under the given home
// directory.
func DefaultPath(home string) string {
	return filepath.Join(home, ".config", "courier", "courier.toml")
}

// Write encodes config as TOML and writes it to path, overwriting any
// previous version. The write is atomic (temporary file, sync, rename,
// parent directory sync) with mode 0600: the document embeds the bot
// token. Parent directories are created as needed, 0700 for the same
// reason.
func Write(path string, config Config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(config); err != nil {
		return fmt.Errorf("encoding courier config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating courier config directory: %w", err)
	}

	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary courier config: %w", err)
	}

	if _, err := file.Write(buffer.Bytes()); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary courier config: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary courier config: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary courier config: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming courier config into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss.
	// courier watches this path; a torn rename would feed it garbage.
	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Load reads and decodes an existing courier config. Used by the
// doctor and config-show commands; the bootstrap itself never reads
// the previous file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("decoding courier config %s: %w", path, err)
	}
	return config, nil
}
