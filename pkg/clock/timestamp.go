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

// Package clock keeps a trustworthy wall clock on devices without a
// battery-backed RTC. It reads the best available time source, caches the
// result in a reset-surviving scratch region and converts timestamps to the
// packed date/time word used by FAT directory entries.
package clock

import (
	"fmt"
	"time"
)

const nanosPerSecond = 1_000_000_000

// Timestamp is a point in time as seconds and nanoseconds since the Unix
// epoch. Nsec is always below one second.
type Timestamp struct {
	Sec  int64
	Nsec uint32
}

// FromTime converts t to a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Sec:  t.Unix(),
		Nsec: uint32(t.Nanosecond()), //nolint:gosec // Nanosecond is always in [0, 1e9)
	}
}

// Time returns the timestamp as a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec)).UTC()
}

// Add returns the timestamp shifted by d.
func (ts Timestamp) Add(d time.Duration) Timestamp {
	return FromTime(ts.Time().Add(d))
}

// IsValid reports whether the nanosecond part is in range.
func (ts Timestamp) IsValid() bool {
	return ts.Nsec < nanosPerSecond
}

func (ts Timestamp) String() string {
	if !ts.IsValid() {
		return fmt.Sprintf("invalid(%d.%d)", ts.Sec, ts.Nsec)
	}
	return ts.Time().Format(time.RFC3339Nano)
}
