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
	"sync"
)

// stubSource is a Source whose reading and availability tests control.
type stubSource struct {
	err    error
	setErr error
	name   string
	seeded []Timestamp
	ts     Timestamp
	mu     sync.Mutex
	reads  int
}

func newStubSource(name string, ts Timestamp) *stubSource {
	return &stubSource{name: name, ts: ts}
}

func unavailableSource(name string) *stubSource {
	return &stubSource{name: name, err: ErrUnavailable}
}

func (s *stubSource) Name() string {
	return s.name
}

func (s *stubSource) ReadTime() (Timestamp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return Timestamp{}, s.err
	}
	return s.ts, nil
}

func (s *stubSource) set(ts Timestamp, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ts = ts
	s.err = err
}

func (s *stubSource) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// settableSource adds SetTime to stubSource.
type settableSource struct {
	*stubSource
}

func (s settableSource) SetTime(ts Timestamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.seeded = append(s.seeded, ts)
	return nil
}

func (s settableSource) seeds() []Timestamp {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Timestamp, len(s.seeded))
	copy(out, s.seeded)
	return out
}

var errBroken = errors.New("broken")

// failingRegion refuses every read and write.
type failingRegion struct{}

func (failingRegion) Size() int { return RecordSize }

func (failingRegion) ReadRegion() ([]byte, error) { return nil, errBroken }

func (failingRegion) WriteRegion([]byte) error { return errBroken }
