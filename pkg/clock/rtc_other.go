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

//go:build !linux

package clock

import "fmt"

// DefaultRTCDevice is unused off Linux.
const DefaultRTCDevice = ""

// RTC is always unavailable on platforms without the Linux rtc interface.
type RTC struct {
	path string
}

func NewRTC(path string) *RTC {
	return &RTC{path: path}
}

func (r *RTC) Name() string {
	return "rtc:" + r.path
}

func (*RTC) ReadTime() (Timestamp, error) {
	return Timestamp{}, fmt.Errorf("%w: no rtc support on this platform", ErrUnavailable)
}

func (*RTC) SetTime(Timestamp) error {
	return fmt.Errorf("%w: no rtc support on this platform", ErrUnavailable)
}
