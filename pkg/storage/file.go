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

package storage

import (
	"fmt"

	"github.com/spf13/afero"
)

// printfBufSize covers typical log lines without touching the heap.
const printfBufSize = 64

// File is an open file on a Volume. Files that were written to get the
// volume's FAT timestamp when closed.
type File struct {
	afero.File
	vol   *Volume
	name  string
	dirty bool
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	if n > 0 {
		f.dirty = true
	}
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", f.name, err)
	}
	return n, nil
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Printf formats into a fixed stack buffer and writes the result. Output
// that does not fit is formatted into a heap buffer instead. It returns the
// number of bytes written.
func (f *File) Printf(format string, args ...any) (int, error) {
	var stack [printfBufSize]byte
	buf := fmt.Appendf(stack[:0], format, args...)
	return f.Write(buf)
}

// Close closes the file and stamps it if it was modified.
func (f *File) Close() error {
	if err := f.File.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", f.name, err)
	}
	if f.dirty && f.vol != nil {
		return f.vol.Touch(f.name)
	}
	return nil
}
