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

package mocks

import (
	"github.com/ZaparooProject/zaparoo-storage/pkg/clock"
	"github.com/stretchr/testify/mock"
)

// MockSource is a mock implementation of the clock.Source interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSource) ReadTime() (clock.Timestamp, error) {
	args := m.Called()
	ts, _ := args.Get(0).(clock.Timestamp)
	return ts, args.Error(1) //nolint:wrapcheck // mock passes through the configured error
}

// MockSettableSource is a MockSource that can also be seeded.
type MockSettableSource struct {
	MockSource
}

func (m *MockSettableSource) SetTime(ts clock.Timestamp) error {
	args := m.Called(ts)
	return args.Error(0) //nolint:wrapcheck // mock passes through the configured error
}
