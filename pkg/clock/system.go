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

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers"
	"github.com/jonboulle/clockwork"
)

// System reads the host wall clock. Hosts without an RTC boot near the Unix
// epoch, so readings before helpers.MinReliableYear count as unavailable.
type System struct {
	clock clockwork.Clock
}

func NewSystem(clk clockwork.Clock) *System {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &System{clock: clk}
}

func (*System) Name() string {
	return "system"
}

func (s *System) ReadTime() (Timestamp, error) {
	now := s.clock.Now()
	if !helpers.IsClockReliable(now) {
		return Timestamp{}, fmt.Errorf("%w: system clock not set (%d)", ErrUnavailable, now.Year())
	}
	return FromTime(now), nil
}
