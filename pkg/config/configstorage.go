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

package config

import "slices"

type Storage struct {
	SPI     []SPI    `toml:"spi,omitempty" validate:"dive"`
	SDCards []SDCard `toml:"sd_card,omitempty" validate:"dive"`
}

// SPI describes one SPI bus. Port is a periph.io port name, alias or bus
// number; empty selects the first port on the host.
type SPI struct {
	Name  string `toml:"name" validate:"required"`
	Port  string `toml:"port,omitempty"`
	MaxHz int64  `toml:"max_hz,omitempty" validate:"gte=0"`
}

// SDCard describes a card wired to a named SPI bus. When LogFile is set the
// daemon appends a boot line to it through the card's mount.
type SDCard struct {
	Name      string `toml:"name" validate:"required"`
	SPI       string `toml:"spi" validate:"required"`
	MountPath string `toml:"mount_path,omitempty"`
	LogFile   string `toml:"log_file,omitempty" validate:"omitempty,excluded_without=MountPath"`
}

func (c *Instance) SPIBuses() []SPI {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Storage.SPI)
}

func (c *Instance) SDCards() []SDCard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Storage.SDCards)
}

func (c *Instance) SetStorage(storage Storage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Storage = Storage{
		SPI:     slices.Clone(storage.SPI),
		SDCards: slices.Clone(storage.SDCards),
	}
}
