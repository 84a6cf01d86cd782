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

package storage_test

import (
	"errors"
	"testing"

	"github.com/ZaparooProject/zaparoo-storage/pkg/storage"
	"github.com/ZaparooProject/zaparoo-storage/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errCardDead = errors.New("card dead")

func providerWith(t *testing.T, cards ...storage.Card) *storage.DefaultProvider {
	t.Helper()
	p := storage.NewProvider()
	for _, card := range cards {
		require.NoError(t, p.AddCard(card))
	}
	return p
}

func readyCard(name string) *mocks.MockCard {
	card := mocks.NewMockCard(name)
	card.On("Init").Return(nil).Once()
	card.On("Status").Return(storage.Status(0))
	return card
}

func TestBeginAllCardsReady(t *testing.T) {
	t.Parallel()

	drv := &mocks.MockDriver{}
	drv.On("Init").Return(nil).Once()
	sd0, sd1 := readyCard("sd0"), readyCard("sd1")

	require.NoError(t, storage.Begin(drv, providerWith(t, sd0, sd1)))

	drv.AssertExpectations(t)
	sd0.AssertExpectations(t)
	sd1.AssertExpectations(t)
}

func TestBeginOneCardFails(t *testing.T) {
	t.Parallel()

	good := readyCard("sd0")
	bad := mocks.NewMockCard("sd1")
	bad.On("Init").Return(errCardDead).Once()

	err := storage.Begin(storage.DriverFunc(func() error { return nil }), providerWith(t, good, bad))
	require.ErrorIs(t, err, storage.ErrDeviceInit)
	require.ErrorIs(t, err, errCardDead)
	assert.Contains(t, err.Error(), "sd1")

	good.AssertExpectations(t)
	bad.AssertExpectations(t)
}

func TestBeginAttemptsEveryCard(t *testing.T) {
	t.Parallel()

	first := mocks.NewMockCard("sd0")
	first.On("Init").Return(errCardDead).Once()
	second := readyCard("sd1")

	err := storage.Begin(nil, providerWith(t, first, second))
	require.ErrorIs(t, err, storage.ErrDeviceInit)

	second.AssertCalled(t, "Init")
}

func TestBeginCardStillNoInit(t *testing.T) {
	t.Parallel()

	card := mocks.NewMockCard("sd0")
	card.On("Init").Return(nil)
	card.On("Status").Return(storage.StatusNoInit)

	err := storage.Begin(nil, providerWith(t, card))
	require.ErrorIs(t, err, storage.ErrDeviceInit)
	assert.Contains(t, err.Error(), "noinit")
}

func TestBeginDriverFails(t *testing.T) {
	t.Parallel()

	drv := &mocks.MockDriver{}
	drv.On("Init").Return(errors.New("no spi controller"))
	card := mocks.NewMockCard("sd0")

	err := storage.Begin(drv, providerWith(t, card))
	require.ErrorIs(t, err, storage.ErrDeviceInit)
	card.AssertNotCalled(t, "Init")
}

func TestBeginMissingCard(t *testing.T) {
	t.Parallel()

	p := &mocks.MockProvider{}
	p.On("CardCount").Return(1)
	p.On("CardByIndex", mock.Anything).Return(nil, false)

	require.ErrorIs(t, storage.Begin(nil, p), storage.ErrDeviceInit)
	p.AssertExpectations(t)
}

func TestBeginNoCards(t *testing.T) {
	t.Parallel()

	require.NoError(t, storage.Begin(nil, storage.NewProvider()))
}
