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

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
)

// Timer is a seeded monotonic clock, the software stand-in for an
// always-on timer. It is unavailable until SetTime is called; after that it
// returns the seed plus the monotonic time elapsed since seeding.
type Timer struct {
	clock  clockwork.Clock
	seed   time.Time
	mark   time.Time
	mu     syncutil.Mutex
	seeded bool
}

// NewTimer returns an unseeded timer measuring elapsed time with clk.
func NewTimer(clk clockwork.Clock) *Timer {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Timer{clock: clk}
}

func (*Timer) Name() string {
	return "timer"
}

func (t *Timer) ReadTime() (Timestamp, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.seeded {
		return Timestamp{}, fmt.Errorf("%w: timer not seeded", ErrUnavailable)
	}
	return FromTime(t.seed.Add(t.clock.Since(t.mark))), nil
}

func (t *Timer) SetTime(ts Timestamp) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seed = ts.Time()
	t.mark = t.clock.Now()
	t.seeded = true
	return nil
}

// Seeded reports whether the timer has been given a time.
func (t *Timer) Seeded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seeded
}
