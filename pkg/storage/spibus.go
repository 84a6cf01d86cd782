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

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// PortOpener opens an SPI port by name. spireg.Open is the default.
type PortOpener func(name string) (spi.PortCloser, error)

// SPIBus is a named SPI port shared by the cards wired to it. The port is
// opened and connected on first use; later callers get the same connection.
type SPIBus struct {
	open  PortOpener
	port  spi.PortCloser
	conn  spi.Conn
	name  string
	dev   string
	maxHz physic.Frequency
	mu    syncutil.Mutex
}

// NewSPIBus describes a bus called name on the periph.io port dev. An empty
// dev selects the first port registered on the host; maxHz of zero leaves
// the port speed unlimited.
func NewSPIBus(name, dev string, maxHz physic.Frequency, open PortOpener) *SPIBus {
	if open == nil {
		open = spireg.Open
	}
	return &SPIBus{
		name:  name,
		dev:   dev,
		maxHz: maxHz,
		open:  open,
	}
}

func (b *SPIBus) Name() string {
	return b.name
}

// Port returns the periph.io port name the bus was configured with.
func (b *SPIBus) Port() string {
	return b.dev
}

func (b *SPIBus) MaxSpeed() physic.Frequency {
	return b.maxHz
}

// Connect opens the port if needed and returns the bus connection. The
// first caller fixes the clock, mode and word size; use Reconnect to change
// them. f is capped at the bus maximum.
func (b *SPIBus) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		return b.conn, nil
	}
	return b.connectLocked(f, mode, bits)
}

// Reconnect reopens the port and connects it at f. periph ports accept a
// single Connect, so a clock change needs a fresh port. Connections handed
// out earlier are invalid afterwards.
func (b *SPIBus) Reconnect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.closeLocked(); err != nil {
		return nil, err
	}
	return b.connectLocked(f, mode, bits)
}

func (b *SPIBus) connectLocked(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if b.port == nil {
		port, err := b.open(b.dev)
		if err != nil {
			return nil, fmt.Errorf("failed to open spi port %q: %w", b.dev, err)
		}
		if b.maxHz > 0 {
			if err := port.LimitSpeed(b.maxHz); err != nil {
				_ = port.Close()
				return nil, fmt.Errorf("failed to limit spi speed on %q: %w", b.dev, err)
			}
		}
		b.port = port
	}

	if b.maxHz > 0 && f > b.maxHz {
		f = b.maxHz
	}
	conn, err := b.port.Connect(f, mode, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to connect spi port %q: %w", b.dev, err)
	}

	log.Debug().Str("bus", b.name).Str("conn", conn.String()).Stringer("hz", f).Msg("spi bus connected")
	b.conn = conn
	return conn, nil
}

// Close releases the port. The bus can be connected again afterwards.
func (b *SPIBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *SPIBus) closeLocked() error {
	if b.port == nil {
		return nil
	}
	err := b.port.Close()
	b.port = nil
	b.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close spi port %q: %w", b.dev, err)
	}
	return nil
}
