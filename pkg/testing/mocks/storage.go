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
	"github.com/ZaparooProject/zaparoo-storage/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// MockCard is a mock implementation of the storage.Card interface using
// testify/mock
type MockCard struct {
	mock.Mock
}

func NewMockCard(name string) *MockCard {
	m := &MockCard{}
	m.On("Name").Return(name).Maybe()
	return m
}

func (m *MockCard) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCard) Init() error {
	args := m.Called()
	return args.Error(0) //nolint:wrapcheck // mock passes through the configured error
}

func (m *MockCard) Status() storage.Status {
	args := m.Called()
	if status, ok := args.Get(0).(storage.Status); ok {
		return status
	}
	return storage.StatusNoInit
}

// MockDriver is a mock implementation of the storage.Driver interface
type MockDriver struct {
	mock.Mock
}

func (m *MockDriver) Init() error {
	args := m.Called()
	return args.Error(0) //nolint:wrapcheck // mock passes through the configured error
}

// MockProvider is a mock implementation of the storage.Provider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SPICount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockProvider) SPIByIndex(i int) (*storage.SPIBus, bool) {
	args := m.Called(i)
	bus, _ := args.Get(0).(*storage.SPIBus)
	return bus, args.Bool(1)
}

func (m *MockProvider) SPIByName(name string) (*storage.SPIBus, bool) {
	args := m.Called(name)
	bus, _ := args.Get(0).(*storage.SPIBus)
	return bus, args.Bool(1)
}

func (m *MockProvider) CardCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockProvider) CardByIndex(i int) (storage.Card, bool) {
	args := m.Called(i)
	card, _ := args.Get(0).(storage.Card)
	return card, args.Bool(1)
}

func (m *MockProvider) CardByName(name string) (storage.Card, bool) {
	args := m.Called(name)
	card, _ := args.Get(0).(storage.Card)
	return card, args.Bool(1)
}
