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

package clock

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultScratchPath lives on tmpfs: it survives a daemon restart or a
// kexec-style warm reboot of the service but not a power cycle.
const DefaultScratchPath = "/dev/shm/zaparoo-storage.rtc"

// Region is a fixed-size block of memory that keeps its content across a warm
// reset but starts with undefined content after power-on.
type Region interface {
	// Size returns the region size in bytes.
	Size() int
	// ReadRegion returns a copy of the whole region.
	ReadRegion() ([]byte, error)
	// WriteRegion overwrites the start of the region with data.
	WriteRegion(data []byte) error
}

// MemRegion is an in-process Region. Sharing one MemRegion between
// successive Service instances models a warm reset.
type MemRegion struct {
	buf []byte
}

// NewMemRegion allocates a region of size bytes. If garbage is non-nil the
// region is filled from it, emulating memory content after power-on.
func NewMemRegion(size int, garbage io.Reader) *MemRegion {
	r := &MemRegion{buf: make([]byte, size)}
	if garbage != nil {
		_, _ = io.ReadFull(garbage, r.buf)
	}
	return r
}

func (r *MemRegion) Size() int {
	return len(r.buf)
}

func (r *MemRegion) ReadRegion() ([]byte, error) {
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out, nil
}

func (r *MemRegion) WriteRegion(data []byte) error {
	if len(data) > len(r.buf) {
		return fmt.Errorf("%w: %d > %d", ErrRegionOverflow, len(data), len(r.buf))
	}
	copy(r.buf, data)
	return nil
}

// FileRegion is a Region backed by a fixed-size file. A missing or short
// file reads as zeros, which never passes record verification.
type FileRegion struct {
	fs   afero.Fs
	path string
	size int
}

// NewFileRegion returns a region of size bytes stored at path on fs.
func NewFileRegion(fs afero.Fs, path string, size int) *FileRegion {
	return &FileRegion{fs: fs, path: path, size: size}
}

func (r *FileRegion) Size() int {
	return r.size
}

// Path returns the backing file path.
func (r *FileRegion) Path() string {
	return r.path
}

func (r *FileRegion) ReadRegion() ([]byte, error) {
	buf := make([]byte, r.size)

	f, err := r.fs.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return buf, nil
		}
		return nil, fmt.Errorf("failed to open scratch region: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, err = io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read scratch region: %w", err)
	}
	return buf, nil
}

func (r *FileRegion) WriteRegion(data []byte) error {
	if len(data) > r.size {
		return fmt.Errorf("%w: %d > %d", ErrRegionOverflow, len(data), r.size)
	}

	if err := r.fs.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	buf := make([]byte, r.size)
	copy(buf, data)
	if err := afero.WriteFile(r.fs, r.path, buf, 0o600); err != nil {
		return fmt.Errorf("failed to write scratch region: %w", err)
	}
	return nil
}
