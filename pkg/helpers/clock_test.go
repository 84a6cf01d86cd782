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

	"github.com/stretchr/testify/assert"
)

func TestIsClockReliable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		time time.Time
		name string
		want bool
	}{
		{
			name: "year 2024 is reliable",
			time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "year 2031 is reliable",
			time: time.Date(2031, 3, 9, 18, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "last second of 2023 is unreliable",
			time: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
			want: false,
		},
		{
			name: "rtc reset value 2000-01-01 is unreliable",
			time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "fat epoch is unreliable",
			time: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "unix zero is unreliable",
			time: time.Unix(0, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsClockReliable(tt.time))
		})
	}
}

func TestMinReliableYearBoundary(t *testing.T) {
	t.Parallel()

	assert.True(t, IsClockReliable(time.Date(MinReliableYear, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsClockReliable(time.Date(MinReliableYear-1, 12, 31, 23, 59, 59, 0, time.UTC)))
}
