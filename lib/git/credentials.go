// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// WriteCredentialStore writes a git credential-store file at path with
// a single HTTPS entry for host. The file uses the store helper's
// line format, one percent-encoded URL per line. Mode 0600, written
// atomically: git reads this file on every authenticated operation,
// and a torn write would lock the agent out of its remotes.
//
// Any existing file is replaced. The store is regenerable state owned
// by the bootstrap, like the courier config.
func WriteCredentialStore(path, host, username, token string) error {
	line := fmt.Sprintf("https://%s:%s@%s\n", url.QueryEscape(username), url.QueryEscape(token), host)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credential store directory: %w", err)
	}

	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary credential store: %w", err)
	}

	if _, err := file.WriteString(line); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary credential store: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary credential store: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary credential store: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming credential store into place: %w", err)
	}

	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}
