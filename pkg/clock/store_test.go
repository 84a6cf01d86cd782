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
	"math/rand"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(NewMemRegion(64, nil))
	want := Timestamp{Sec: 1_700_000_000, Nsec: 123_456_789}
	require.NoError(t, store.Save(want))

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, rec.Stamp)
	assert.Equal(t, Signature, rec.Signature)
}

func TestStoreLoadUninitialized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		region Region
		name   string
	}{
		{name: "zeroed memory", region: NewMemRegion(RecordSize, nil)},
		{name: "power-on garbage", region: NewMemRegion(RecordSize, rand.New(rand.NewSource(7)))},
		{name: "missing scratch file", region: NewFileRegion(afero.NewMemMapFs(), "/dev/shm/clock.rtc", RecordSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewStore(tt.region).Load()
			require.ErrorIs(t, err, ErrRecordInvalid)
		})
	}
}

func TestStoreLoadCorrupted(t *testing.T) {
	t.Parallel()

	region := NewMemRegion(RecordSize, nil)
	store := NewStore(region)
	require.NoError(t, store.Save(Timestamp{Sec: 1_700_000_000}))

	region.Corrupt(6, 0x10)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrRecordInvalid)
}

func TestStoreRegionErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(failingRegion{})
	require.ErrorIs(t, store.Save(Timestamp{Sec: 1}), errBroken)

	_, err := store.Load()
	require.ErrorIs(t, err, errBroken)
}

func TestMemRegionOverflow(t *testing.T) {
	t.Parallel()

	region := NewMemRegion(4, nil)
	require.ErrorIs(t, region.WriteRegion(make([]byte, 5)), ErrRegionOverflow)
	require.NoError(t, region.WriteRegion([]byte{1, 2}))

	data, err := region.ReadRegion()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0, 0}, data)
}

func TestFileRegionPersists(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := "/dev/shm/zaparoo/clock.rtc"

	first := NewStore(NewFileRegion(fs, path, 32))
	require.NoError(t, first.Save(Timestamp{Sec: 1_700_000_000}))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(32), info.Size())

	// a second store over the same file sees the record, as after a restart
	rec, err := NewStore(NewFileRegion(fs, path, 32)).Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), rec.Stamp.Sec)
}

func TestFileRegionOverflow(t *testing.T) {
	t.Parallel()

	region := NewFileRegion(afero.NewMemMapFs(), "/r", 8)
	require.ErrorIs(t, region.WriteRegion(make([]byte, 9)), ErrRegionOverflow)
	assert.Equal(t, "/r", region.Path())
	assert.Equal(t, 8, region.Size())
}

func TestFileRegionShortFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/r", []byte{0xff, 0xff}, 0o600))

	data, err := NewFileRegion(fs, "/r", 4).ReadRegion()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0, 0}, data)
}
