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

package helpers

import (
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/clock"
	"github.com/stretchr/testify/require"
)

// AssertFatTime validates that ft packs the calendar fields of want, with
// seconds truncated to the two-second FAT resolution.
func AssertFatTime(t *testing.T, ft clock.FatTime, want time.Time) {
	t.Helper()

	require.False(t, ft.IsZero(), "FAT time should be set (was the unknown-time sentinel)")
	require.Equal(t, want.Year(), ft.Year(), "year")
	require.Equal(t, want.Month(), ft.Month(), "month")
	require.Equal(t, want.Day(), ft.Day(), "day")
	require.Equal(t, want.Hour(), ft.Hour(), "hour")
	require.Equal(t, want.Minute(), ft.Minute(), "minute")
	require.Equal(t, want.Second()&^1, ft.Second(), "second")
}
