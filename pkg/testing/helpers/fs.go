// Zaparoo Storage
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Storage.
//
// Zaparoo Storage is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Storage is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Storage.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/clock"
	"github.com/ZaparooProject/zaparoo-storage/pkg/config"
	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// WriteConfig writes a TOML config file into dir and returns its path.
func (h *FSHelper) WriteConfig(dir, content string) (string, error) {
	if err := h.Fs.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, config.CfgFile)
	if err := afero.WriteFile(h.Fs, path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// SeedScratch leaves a valid clock record at path, as a previous run
// would have before a warm reset.
func (h *FSHelper) SeedScratch(path string, ts clock.Timestamp) error {
	region := clock.NewFileRegion(h.Fs, path, clock.RecordSize)
	if err := clock.NewStore(region).Save(ts); err != nil {
		return fmt.Errorf("failed to seed scratch record: %w", err)
	}
	return nil
}

// FileExists checks if a file exists in the filesystem
func (h *FSHelper) FileExists(path string) bool {
	_, err := h.Fs.Stat(path)
	return err == nil
}

// ReadFile reads the content of a file
func (h *FSHelper) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(h.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// ModTime returns the modification time of path in UTC.
func (h *FSHelper) ModTime(path string) (time.Time, error) {
	info, err := h.Fs.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.ModTime().UTC(), nil
}

// ListFiles returns the names of the entries in a directory
func (h *FSHelper) ListFiles(path string) ([]string, error) {
	entries, err := afero.ReadDir(h.Fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
