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
	"fmt"

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers/syncutil"
)

// Store persists the last trusted timestamp into a Region. The Time Service
// is its only writer.
type Store struct {
	region Region
	mu     syncutil.Mutex
}

// NewStore returns a Store writing to region.
func NewStore(region Region) *Store {
	return &Store{region: region}
}

// Save signs ts, checksums it and overwrites the region.
func (s *Store) Save(ts Timestamp) error {
	data, err := NewRecord(ts).MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode clock record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.region.WriteRegion(data); err != nil {
		return fmt.Errorf("failed to save clock record: %w", err)
	}
	return nil
}

// Load reads the region back. It returns an error wrapping ErrRecordInvalid
// when the region was never written by Save (bad signature) or was corrupted
// afterwards (checksum mismatch).
func (s *Store) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.region.ReadRegion()
	if err != nil {
		return Record{}, fmt.Errorf("failed to load clock record: %w", err)
	}

	var rec Record
	if err := rec.UnmarshalBinary(data); err != nil {
		return Record{}, err
	}
	if err := rec.Verify(); err != nil {
		return Record{}, err
	}
	return rec, nil
}
