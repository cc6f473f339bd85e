// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package skill

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/steward/lib/vault"
)

// BundleParams configures InstallBundle.
type BundleParams struct {
	// URL is the bundle archive address. Empty means no baseline
	// bundle is configured; the install records a skip.
	URL string

	// Name overrides the bundle directory name under the skills
	// directory. Empty derives the name from the final URL path
	// segment with its archive suffix stripped.
	Name string
}

// Installer fetches skill bundle archives and unpacks them into a
// skills directory.
type Installer struct {
	// SkillsDir is the vault's skills directory.
	SkillsDir string

	// HTTPClient performs the bundle fetch. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client
}

// InstallBundle ensures the configured bundle is present under the
// skills directory. An existing target directory is skipped without
// inspection, whatever its contents. A fresh install streams the
// archive into a staging directory next to the target and renames it
// into place, so a failed install never leaves a half-populated skill
// visible.
//
// The returned outcome's ContentHash is the BLAKE3 digest of the
// archive exactly as fetched, before decompression.
func (installer *Installer) InstallBundle(ctx context.Context, params BundleParams) (vault.Outcome, error) {
	if params.URL == "" {
		return vault.Outcome{Path: installer.SkillsDir, Kind: vault.KindBundle, Action: vault.ActionSkipped}, nil
	}

	decompress, err := decompressorFor(params.URL)
	if err != nil {
		return vault.Outcome{}, err
	}

	name := params.Name
	if name == "" {
		name, err = bundleNameFromURL(params.URL)
		if err != nil {
			return vault.Outcome{}, err
		}
	}
	if name == "." || name == ".." || strings.ContainsRune(name, os.PathSeparator) {
		return vault.Outcome{}, fmt.Errorf("invalid bundle name %q", name)
	}

	target := filepath.Join(installer.SkillsDir, name)
	outcome := vault.Outcome{Path: target, Kind: vault.KindBundle}

	if _, err := os.Lstat(target); err == nil {
		outcome.Action = vault.ActionSkipped
		return outcome, nil
	} else if !os.IsNotExist(err) {
		return vault.Outcome{}, fmt.Errorf("checking bundle target %q: %w", target, err)
	}

	if err := os.MkdirAll(installer.SkillsDir, 0o755); err != nil {
		return vault.Outcome{}, fmt.Errorf("creating skills directory: %w", err)
	}

	// Stage in a sibling directory so the rename below is a same-
	// filesystem move and a failure partway through leaves nothing
	// at the target path.
	staging, err := os.MkdirTemp(installer.SkillsDir, ".install-")
	if err != nil {
		return vault.Outcome{}, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	hash, err := installer.fetchAndExtract(ctx, params.URL, decompress, staging)
	if err != nil {
		return vault.Outcome{}, err
	}

	if err := os.Rename(staging, target); err != nil {
		return vault.Outcome{}, fmt.Errorf("installing bundle: %w", err)
	}

	outcome.Action = vault.ActionApplied
	outcome.ContentHash = hash
	return outcome, nil
}

func (installer *Installer) fetchAndExtract(ctx context.Context, bundleURL string, decompress decompressorFactory, destination string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, bundleURL, nil)
	if err != nil {
		return "", fmt.Errorf("building bundle request: %w", err)
	}

	client := installer.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("fetching bundle: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching bundle %q: HTTP %d", bundleURL, response.StatusCode)
	}

	// The digest covers the compressed archive bytes as they stream
	// past, so it can be compared against a published checksum for
	// the file.
	hasher := blake3.New()
	tee := io.TeeReader(response.Body, hasher)

	archive, closeArchive, err := decompress(tee)
	if err != nil {
		return "", err
	}
	if err := extract(tar.NewReader(archive), destination); err != nil {
		return "", err
	}

	// The tar end-of-archive marker can leave trailing bytes
	// unread; drain them so the digest covers the whole file.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return "", fmt.Errorf("draining bundle stream: %w", err)
	}
	if closeArchive != nil {
		if err := closeArchive(); err != nil {
			return "", fmt.Errorf("finishing decompression: %w", err)
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// decompressorFactory wraps a compressed archive stream with its
// decompressor, returning the decompressed reader and an optional
// close function.
type decompressorFactory func(io.Reader) (io.Reader, func() error, error)

// decompressorFor selects the decompressor from the archive filename
// extension in the bundle URL.
func decompressorFor(bundleURL string) (decompressorFactory, error) {
	parsed, err := url.Parse(bundleURL)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle URL: %w", err)
	}

	switch {
	case strings.HasSuffix(parsed.Path, ".tar.zst"):
		return func(source io.Reader) (io.Reader, func() error, error) {
			decoder, err := zstd.NewReader(source)
			if err != nil {
				return nil, nil, fmt.Errorf("initializing zstd decoder: %w", err)
			}
			return decoder, func() error { decoder.Close(); return nil }, nil
		}, nil
	case strings.HasSuffix(parsed.Path, ".tar.lz4"):
		return func(source io.Reader) (io.Reader, func() error, error) {
			return lz4.NewReader(source), nil, nil
		}, nil
	case strings.HasSuffix(parsed.Path, ".tar.gz"), strings.HasSuffix(parsed.Path, ".tgz"):
		return func(source io.Reader) (io.Reader, func() error, error) {
			reader, err := gzip.NewReader(source)
			if err != nil {
				return nil, nil, fmt.Errorf("initializing gzip reader: %w", err)
			}
			return reader, reader.Close, nil
		}, nil
	case strings.HasSuffix(parsed.Path, ".tar"):
		return func(source io.Reader) (io.Reader, func() error, error) {
			return source, nil, nil
		}, nil
	}
	return nil, fmt.Errorf("unsupported bundle archive format %q (want .tar.zst, .tar.lz4, .tar.gz, or .tar)", path.Base(parsed.Path))
}

// extract unpacks a tar stream into destination. Entries that escape
// the destination (absolute paths, ".." traversal) are rejected, and
// the joined path is additionally contained with SecureJoin. Only
// directories and regular files are accepted: a skill bundle has no
// business shipping symlinks or device nodes.
func extract(reader *tar.Reader, destination string) error {
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading bundle archive: %w", err)
		}

		name := path.Clean(header.Name)
		if name == "." {
			// Root directory entry from "tar -C dir -cf out ."
			continue
		}
		if !filepath.IsLocal(name) {
			return fmt.Errorf("bundle entry %q escapes the bundle directory", header.Name)
		}

		entryPath, err := securejoin.SecureJoin(destination, name)
		if err != nil {
			return fmt.Errorf("bundle entry %q: %w", header.Name, err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(entryPath, 0o755); err != nil {
				return fmt.Errorf("creating bundle directory %q: %w", header.Name, err)
			}
		case tar.TypeReg:
			if err := writeEntry(entryPath, header, reader); err != nil {
				return fmt.Errorf("extracting bundle entry %q: %w", header.Name, err)
			}
		default:
			return fmt.Errorf("bundle entry %q has unsupported type %q", header.Name, rune(header.Typeflag))
		}
	}
}

func writeEntry(entryPath string, header *tar.Header, content io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(entryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, header.FileInfo().Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// bundleNameFromURL derives the bundle directory name from the final
// URL path segment with the archive suffix stripped, so
// ".../baseline-skills.tar.zst" installs as "baseline-skills".
func bundleNameFromURL(bundleURL string) (string, error) {
	parsed, err := url.Parse(bundleURL)
	if err != nil {
		return "", fmt.Errorf("parsing bundle URL: %w", err)
	}
	name := path.Base(parsed.Path)
	for _, suffix := range []string{".tar.zst", ".tar.lz4", ".tar.gz", ".tgz", ".tar"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive a bundle name from URL %q", bundleURL)
	}
	return name, nil
}
