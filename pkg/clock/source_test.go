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
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainReadTimePriority(t *testing.T) {
	t.Parallel()

	first := unavailableSource("rtc")
	second := newStubSource("system", Timestamp{Sec: 200})
	third := newStubSource("fallback", Timestamp{Sec: 300})

	chain := NewChain(first, nil, second, third)
	require.Len(t, chain.Sources(), 3)

	ts, err := chain.ReadTime()
	require.NoError(t, err)
	assert.Equal(t, int64(200), ts.Sec)
	assert.Equal(t, 1, first.readCount())
	assert.Equal(t, 0, third.readCount())
}

func TestChainReadTimeAllUnavailable(t *testing.T) {
	t.Parallel()

	broken := newStubSource("broken", Timestamp{})
	broken.set(Timestamp{}, errBroken)

	_, err := NewChain(unavailableSource("a"), broken).ReadTime()
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = NewChain().ReadTime()
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestChainSetTime(t *testing.T) {
	t.Parallel()

	ts := Timestamp{Sec: 1_700_000_000}
	a := settableSource{newStubSource("a", Timestamp{})}
	b := settableSource{unavailableSource("b")}
	b.setErr = ErrUnavailable
	readOnly := newStubSource("ro", Timestamp{})

	require.NoError(t, NewChain(a, b, readOnly).SetTime(ts))
	assert.Equal(t, []Timestamp{ts}, a.seeds())
	assert.Empty(t, b.seeds())
}

func TestChainSetTimeJoinsErrors(t *testing.T) {
	t.Parallel()

	bad := settableSource{newStubSource("bad", Timestamp{})}
	bad.setErr = errBroken
	good := settableSource{newStubSource("good", Timestamp{})}

	err := NewChain(bad, good).SetTime(Timestamp{Sec: 10})
	require.ErrorIs(t, err, errBroken)
	assert.Contains(t, err.Error(), "bad")
	assert.Len(t, good.seeds(), 1)
}

func TestTimer(t *testing.T) {
	t.Parallel()

	fake := clockwork.NewFakeClockAt(time.Unix(0, 0))
	timer := NewTimer(fake)

	_, err := timer.ReadTime()
	require.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, timer.Seeded())

	require.NoError(t, timer.SetTime(Timestamp{Sec: 1_700_000_000}))
	assert.True(t, timer.Seeded())

	fake.Advance(90 * time.Second)

	ts, err := timer.ReadTime()
	require.NoError(t, err)
	assert.Equal(t, Timestamp{Sec: 1_700_000_090}, ts)
}

func TestSystemSource(t *testing.T) {
	t.Parallel()

	_, err := NewSystem(clockwork.NewFakeClockAt(time.Unix(0, 0))).ReadTime()
	require.ErrorIs(t, err, ErrUnavailable)

	now := time.Date(2025, time.May, 5, 10, 0, 0, 500, time.UTC)
	ts, err := NewSystem(clockwork.NewFakeClockAt(now)).ReadTime()
	require.NoError(t, err)
	assert.Equal(t, FromTime(now), ts)
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	ts := Timestamp{Sec: 1_700_000_000, Nsec: 5}
	assert.True(t, ts.IsValid())
	assert.Equal(t, Timestamp{Sec: 1_700_000_001, Nsec: 5}, ts.Add(time.Second))
	assert.Equal(t, "2023-11-14T22:13:20.000000005Z", ts.String())

	bad := Timestamp{Sec: 1, Nsec: nanosPerSecond}
	assert.False(t, bad.IsValid())
	assert.Equal(t, "invalid(1.1000000000)", bad.String())
}
