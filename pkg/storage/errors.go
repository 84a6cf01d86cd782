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

package storage

import "errors"

var (
	// ErrDeviceInit is returned by Begin when the driver layer or any card
	// failed to initialize.
	ErrDeviceInit = errors.New("storage device init failed")

	// ErrNoCard is returned when nothing answers the SD idle command.
	ErrNoCard = errors.New("no sd card responding")

	// ErrDuplicateName is returned when a registry already holds the name.
	ErrDuplicateName = errors.New("duplicate device name")

	// ErrUnknownBus is returned when a card references an unregistered bus.
	ErrUnknownBus = errors.New("unknown spi bus")

	// ErrBusInUse is returned when a second card is added on a bus. Each bus
	// is a single chip select.
	ErrBusInUse = errors.New("spi bus already has a card")
)
