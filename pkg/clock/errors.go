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

import "errors"

var (
	// ErrUnavailable is returned by a Source that has no usable time right
	// now: hardware missing, not seeded yet or reporting an unset clock.
	ErrUnavailable = errors.New("clock source unavailable")

	// ErrRecordInvalid is returned when the scratch region does not hold a
	// record written by this package (bad signature or checksum).
	ErrRecordInvalid = errors.New("persisted clock record invalid")

	// ErrNoTimeSource is returned by Service.Boot when neither a clock source
	// nor the persisted record can provide a time.
	ErrNoTimeSource = errors.New("no time source")

	// ErrRegionOverflow is returned when data does not fit a Region.
	ErrRegionOverflow = errors.New("data exceeds region size")
)
