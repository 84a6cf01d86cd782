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

//go:build linux

package clock

import (
	"fmt"
	"os"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers"
	"golang.org/x/sys/unix"
)

// DefaultRTCDevice is the first hardware RTC on Linux.
const DefaultRTCDevice = "/dev/rtc0"

// RTC reads and sets a hardware real-time clock through the Linux rtc
// character device. The RTC is assumed to keep UTC.
type RTC struct {
	path string
}

func NewRTC(path string) *RTC {
	if path == "" {
		path = DefaultRTCDevice
	}
	return &RTC{path: path}
}

func (r *RTC) Name() string {
	return "rtc:" + r.path
}

func (r *RTC) ReadTime() (Timestamp, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	rt, err := unix.IoctlGetRTCTime(int(f.Fd())) //nolint:gosec // fd fits in int
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: RTC_RD_TIME: %w", ErrUnavailable, err)
	}

	t := rtcToTime(rt)
	if !helpers.IsClockReliable(t) {
		return Timestamp{}, fmt.Errorf("%w: rtc not set (%s)", ErrUnavailable, t.Format(time.DateOnly))
	}
	return FromTime(t), nil
}

func (r *RTC) SetTime(ts Timestamp) error {
	f, err := os.OpenFile(r.path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return fmt.Errorf("failed to open rtc: %w", err)
	}
	defer func() { _ = f.Close() }()

	//nolint:gosec // fd fits in int
	if err := unix.IoctlSetRTCTime(int(f.Fd()), timeToRTC(ts.Time())); err != nil {
		return fmt.Errorf("RTC_SET_TIME: %w", err)
	}
	return nil
}

// rtcToTime converts the kernel's struct rtc_time (tm-style: years since
// 1900, zero-based month) to a UTC time.
func rtcToTime(rt *unix.RTCTime) time.Time {
	return time.Date(
		int(rt.Year)+1900,
		time.Month(rt.Mon+1),
		int(rt.Mday),
		int(rt.Hour),
		int(rt.Min),
		int(rt.Sec),
		0,
		time.UTC,
	)
}

//nolint:gosec // calendar fields always fit in int32
func timeToRTC(t time.Time) *unix.RTCTime {
	t = t.UTC()
	return &unix.RTCTime{
		Sec:  int32(t.Second()),
		Min:  int32(t.Minute()),
		Hour: int32(t.Hour()),
		Mday: int32(t.Day()),
		Mon:  int32(t.Month()) - 1,
		Year: int32(t.Year() - 1900),
		Wday: int32(t.Weekday()),
		Yday: int32(t.YearDay() - 1),
	}
}
