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
	"time"
)

// FatTime is the packed 32-bit date/time word of a FAT directory entry:
//
//	bit 31:25  year - 1980 (0..127)
//	bit 24:21  month (1..12)
//	bit 20:16  day of month (1..31)
//	bit 15:11  hour (0..23)
//	bit 10:5   minute (0..59)
//	bit 4:0    second / 2 (0..29)
//
// The zero value means "no timestamp", not 1980-01-01.
type FatTime uint32

const (
	fatEpochYear = 1980

	fatYearShift   = 25
	fatMonthShift  = 21
	fatDayShift    = 16
	fatHourShift   = 11
	fatMinuteShift = 5

	fatYearMask   = 0x7f
	fatMonthMask  = 0x0f
	fatDayMask    = 0x1f
	fatHourMask   = 0x1f
	fatMinuteMask = 0x3f
	fatSecondMask = 0x1f
)

// Encode expands ts into calendar fields in loc (UTC when nil) and packs
// them. Years outside 1980..2107 wrap through the 7-bit field; seconds are
// truncated to two-second resolution.
//
//nolint:gosec // the masks bound every field before shifting
func Encode(ts Timestamp, loc *time.Location) FatTime {
	if loc == nil {
		loc = time.UTC
	}
	t := ts.Time().In(loc)

	var v uint32
	v |= (uint32(t.Year()-fatEpochYear) & fatYearMask) << fatYearShift
	v |= (uint32(t.Month()) & fatMonthMask) << fatMonthShift
	v |= (uint32(t.Day()) & fatDayMask) << fatDayShift
	v |= (uint32(t.Hour()) & fatHourMask) << fatHourShift
	v |= (uint32(t.Minute()) & fatMinuteMask) << fatMinuteShift
	v |= uint32(t.Second()/2) & fatSecondMask
	return FatTime(v)
}

// IsZero reports whether f is the "unknown time" sentinel.
func (f FatTime) IsZero() bool {
	return f == 0
}

func (f FatTime) Year() int {
	return fatEpochYear + int(uint32(f)>>fatYearShift&fatYearMask)
}

func (f FatTime) Month() time.Month {
	return time.Month(uint32(f) >> fatMonthShift & fatMonthMask)
}

func (f FatTime) Day() int {
	return int(uint32(f) >> fatDayShift & fatDayMask)
}

func (f FatTime) Hour() int {
	return int(uint32(f) >> fatHourShift & fatHourMask)
}

func (f FatTime) Minute() int {
	return int(uint32(f) >> fatMinuteShift & fatMinuteMask)
}

// Second returns the seconds field, which only has even values.
func (f FatTime) Second() int {
	return int(uint32(f)&fatSecondMask) * 2
}

// DateWord returns the 16-bit date half stored in the directory entry.
func (f FatTime) DateWord() uint16 {
	return uint16(f >> 16) //nolint:gosec // high half
}

// TimeWord returns the 16-bit time half stored in the directory entry.
func (f FatTime) TimeWord() uint16 {
	return uint16(f) //nolint:gosec // low half
}

// Decode returns the calendar time the word describes in loc (UTC when
// nil). The zero sentinel decodes to the zero time.Time.
func (f FatTime) Decode(loc *time.Location) time.Time {
	if f.IsZero() {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(f.Year(), f.Month(), f.Day(), f.Hour(), f.Minute(), f.Second(), 0, loc)
}

func (f FatTime) String() string {
	if f.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		f.Year(), int(f.Month()), f.Day(), f.Hour(), f.Minute(), f.Second())
}
