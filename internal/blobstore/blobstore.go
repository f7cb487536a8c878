// Copyright 2026 SCIO Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package blobstore implements the content-addressed blob store: the
// on-disk key-value store keyed by the SHA-256 hexdigest of a document's
// content, plus the quarantine path a document submitted with store=false
// is written to instead, so its bytes are retrievable but never indexed.
//
// The on-disk layout follows the ~/.cie/<project>/ directory convention
// (cmd/cie/queue.go's NewIndexQueue): a base data directory with two
// subdirectories, blobs/ and quarantine/, each holding one file per
// hexdigest. Writes are atomic (temp file + rename) so a reader never
// observes a partially written blob.
package blobstore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when no blob exists for the given digest.
var ErrNotFound = errors.New("blobstore: not found")

// Store is a content-addressed blob store rooted at a base directory.
type Store struct {
	blobsDir      string
	quarantineDir string
}

// Open ensures the store's directories exist under baseDir and returns a
// ready-to-use Store.
func Open(baseDir string) (*Store, error) {
	s := &Store{
		blobsDir:      filepath.Join(baseDir, "blobs"),
		quarantineDir: filepath.Join(baseDir, "quarantine"),
	}
	for _, dir := range []string{s.blobsDir, s.quarantineDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("blobstore: create %s: %w", dir, err)
		}
	}
	return s, nil
}

// Hexdigest computes the SHA-256 content identity used as the primary key
// everywhere in the system.
func Hexdigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Put writes content under its hexdigest, in the quarantine directory if
// quarantine is true, else the ordinary blobs directory. Two submissions
// of identical bytes overwrite the same path, matching the dedup
// dedup invariant: the write is idempotent.
func (s *Store) Put(content []byte, quarantine bool) (string, error) {
	digest := Hexdigest(content)
	dir := s.blobsDir
	if quarantine {
		dir = s.quarantineDir
	}
	path := filepath.Join(dir, digest)

	tmp, err := os.CreateTemp(dir, digest+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("blobstore: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("blobstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("blobstore: close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("blobstore: rename: %w", err)
	}
	return digest, nil
}

// Get returns the bytes stored under digest, checking the ordinary blobs
// directory first and the quarantine directory second. Returns
// ErrNotFound if neither has it.
func (s *Store) Get(digest string) ([]byte, error) {
	for _, dir := range []string{s.blobsDir, s.quarantineDir} {
		data, err := os.ReadFile(filepath.Join(dir, digest))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("blobstore: read %s: %w", digest, err)
		}
	}
	return nil, ErrNotFound
}

// OpenReader returns a reader over digest's blob, for large-file streaming
// callers (e.g. the /download HTTP handler) that don't want to buffer the
// whole blob in memory.
func (s *Store) OpenReader(digest string) (io.ReadCloser, error) {
	for _, dir := range []string{s.blobsDir, s.quarantineDir} {
		f, err := os.Open(filepath.Join(dir, digest))
		if err == nil {
			return f, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("blobstore: open %s: %w", digest, err)
		}
	}
	return nil, ErrNotFound
}

// Exists reports whether a blob with digest is present in either
// directory, without reading its content.
func (s *Store) Exists(digest string) bool {
	for _, dir := range []string{s.blobsDir, s.quarantineDir} {
		if _, err := os.Stat(filepath.Join(dir, digest)); err == nil {
			return true
		}
	}
	return false
}

// Count returns the number of blobs currently stored in the ordinary
// (non-quarantine) directory, used by tests asserting dedup behavior
// (e.g. that resubmitting identical bytes leaves exactly one blob on disk).
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.blobsDir)
	if err != nil {
		return 0, fmt.Errorf("blobstore: readdir: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}
