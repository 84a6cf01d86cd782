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

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"
)

// Driver initializes the host layer the cards are reached through.
type Driver interface {
	Init() error
}

// DriverFunc adapts a plain function to Driver.
type DriverFunc func() error

func (f DriverFunc) Init() error {
	return f()
}

// HostDriver loads the periph.io host drivers, which register the SPI
// ports spireg.Open looks up.
type HostDriver struct{}

func (HostDriver) Init() error {
	state, err := host.Init()
	if err != nil {
		return fmt.Errorf("failed to load host drivers: %w", err)
	}

	for _, failure := range state.Failed {
		log.Warn().Err(failure.Err).Str("driver", failure.D.String()).Msg("host driver failed")
	}
	log.Debug().
		Int("loaded", len(state.Loaded)).
		Int("skipped", len(state.Skipped)).
		Int("failed", len(state.Failed)).
		Msg("host drivers initialized")
	return nil
}
