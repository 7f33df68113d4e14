// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// tempPattern names temp files so that they are hidden and never mistaken
// for finished artifacts.
const tempPattern = ".tmp-*"

// RELIABILITY: Atomic write with fsync prevents data loss on crash
//
// AtomicWriteFile writes data to a file atomically using the following pattern:
// 1. Write to a temporary file in the same directory
// 2. Sync the data to disk using fsync
// 3. Close the file
// 4. Atomically rename the temp file to the target path
//
// On crash, either the old file or the new complete file exists.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	tempPath, err := WriteTemp(filepath.Dir(absPath), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return err
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	// Atomic rename - replaces target file atomically
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// WriteTemp creates a temp file in dir, fills it through write and syncs it
// to disk. The directory is created if needed. On success the caller owns
// the returned path; on failure nothing is left behind.
func WriteTemp(dir string, write func(w io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Same directory as the target: the later rename or link never crosses
	// filesystems.
	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if err := write(f); err != nil {
		return "", err
	}

	// RELIABILITY: Sync to disk - ensures data is persisted before publishing
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync data to disk: %w", err)
	}

	// Close before rename - required on some systems (Windows)
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	success = true
	return tempPath, nil
}

// PublishExclusive moves a finished temp file to path unless path already
// exists. When another writer got there first the temp file is removed and
// an error matching os.ErrExist is returned.
//
// A hard link is used so that creation of path is atomic and exclusive.
// Filesystems without hard links fall back to an existence check followed
// by a rename.
func PublishExclusive(tempPath, path string, perm os.FileMode) error {
	defer os.Remove(tempPath)

	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	err := os.Link(tempPath, path)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("publish %s: %w", path, os.ErrExist)
	}

	// No hard link support: best-effort exclusive rename.
	if _, statErr := os.Lstat(path); statErr == nil {
		return fmt.Errorf("publish %s: %w", path, os.ErrExist)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
