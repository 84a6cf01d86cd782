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
	"os"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/clock"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// StampFunc is the filesystem time callback, e.g. clock.Service.FatTime.
type StampFunc func() clock.FatTime

// Volume is a mounted card filesystem whose modified files carry FAT
// timestamps from a StampFunc.
type Volume struct {
	fs    afero.Fs
	stamp StampFunc
	loc   *time.Location
	root  string
}

// NewVolume roots a volume at root on fs. Times are expanded in loc (UTC
// when nil); a nil stamp leaves file times to the host.
func NewVolume(fs afero.Fs, root string, stamp StampFunc, loc *time.Location) *Volume {
	if loc == nil {
		loc = time.UTC
	}
	if root != "" && root != "/" {
		fs = afero.NewBasePathFs(fs, root)
	}
	return &Volume{
		fs:    fs,
		root:  root,
		stamp: stamp,
		loc:   loc,
	}
}

// Fs returns the filesystem relative to the volume root.
func (v *Volume) Fs() afero.Fs {
	return v.fs
}

func (v *Volume) Root() string {
	return v.root
}

func (v *Volume) OpenFile(name string, flag int, perm os.FileMode) (*File, error) {
	f, err := v.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return &File{File: f, vol: v, name: name}, nil
}

// Create truncates or creates name for writing.
func (v *Volume) Create(name string) (*File, error) {
	return v.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
}

// Append opens name for appending, creating it if needed.
func (v *Volume) Append(name string) (*File, error) {
	return v.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}

// Mkdir creates a directory and stamps it.
func (v *Volume) Mkdir(name string) error {
	if err := v.fs.MkdirAll(name, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	return v.Touch(name)
}

// Touch sets the modification time of name from the stamp callback. A zero
// stamp means the time is unknown and the file is left as is.
func (v *Volume) Touch(name string) error {
	if v.stamp == nil {
		return nil
	}
	ft := v.stamp()
	if ft.IsZero() {
		log.Debug().Str("file", name).Msg("no fat time available, leaving file time")
		return nil
	}

	t := ft.Decode(v.loc)
	if err := v.fs.Chtimes(name, t, t); err != nil {
		return fmt.Errorf("failed to stamp %s: %w", name, err)
	}
	return nil
}

// ModTime returns the modification time of name packed as a FAT time.
func (v *Volume) ModTime(name string) (clock.FatTime, error) {
	info, err := v.fs.Stat(name)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return clock.Encode(clock.FromTime(info.ModTime()), v.loc), nil
}
