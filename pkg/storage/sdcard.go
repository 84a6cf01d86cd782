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
	"bytes"
	"fmt"
	"strings"

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Status mirrors the FatFs disk status bits.
type Status uint8

const (
	StatusNoInit  Status = 0x01
	StatusNoDisk  Status = 0x02
	StatusProtect Status = 0x04
)

func (s Status) String() string {
	if s == 0 {
		return "ready"
	}
	var parts []string
	if s&StatusNoInit != 0 {
		parts = append(parts, "noinit")
	}
	if s&StatusNoDisk != 0 {
		parts = append(parts, "nodisk")
	}
	if s&StatusProtect != 0 {
		parts = append(parts, "protect")
	}
	return strings.Join(parts, "|")
}

// Card is a storage device the boot sequence initializes before any
// filesystem is mounted on it.
type Card interface {
	Name() string
	// Init brings the card up. It returns nil once the card is ready and
	// may be called again after a failure.
	Init() error
	Status() Status
}

const (
	// SD cards must be clocked at 100-400 kHz until they leave idle state.
	initFrequency = 400 * physic.KiloHertz

	wakeBytes    = 10
	cmd0Attempts = 3
	// an R1 response arrives within 8 bytes of the command
	responseWindow = 8

	r1Idle byte = 0x01
	idle   byte = 0xff
)

// cmd0 is GO_IDLE_STATE with its fixed CRC.
var cmd0 = []byte{0x40, 0x00, 0x00, 0x00, 0x00, 0x95}

// SDCard is an SD card in SPI mode on a shared bus.
type SDCard struct {
	bus       *SPIBus
	name      string
	mountPath string
	mu        syncutil.Mutex
	status    Status
}

// NewSDCard returns an uninitialized card on bus. mountPath is where the
// card's filesystem is mounted on the host, or "" if it is not.
func NewSDCard(name string, bus *SPIBus, mountPath string) *SDCard {
	return &SDCard{
		name:      name,
		bus:       bus,
		mountPath: mountPath,
		status:    StatusNoInit,
	}
}

func (c *SDCard) Name() string {
	return c.name
}

func (c *SDCard) Bus() *SPIBus {
	return c.bus
}

func (c *SDCard) MountPath() string {
	return c.mountPath
}

func (c *SDCard) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Init clocks the card out of power-up and puts it in SPI idle state.
func (c *SDCard) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status&StatusNoInit == 0 {
		return nil
	}
	if c.bus == nil {
		c.status |= StatusNoDisk
		return fmt.Errorf("%w: %s has no spi bus", ErrNoCard, c.name)
	}

	conn, err := c.bus.Connect(initFrequency, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("sd card %s: %w", c.name, err)
	}

	// at least 74 clocks with MOSI high before the first command
	if err := conn.Tx(bytes.Repeat([]byte{idle}, wakeBytes), nil); err != nil {
		return fmt.Errorf("sd card %s: wake: %w", c.name, err)
	}

	w := make([]byte, len(cmd0)+responseWindow)
	copy(w, cmd0)
	for i := len(cmd0); i < len(w); i++ {
		w[i] = idle
	}
	r := make([]byte, len(w))

	last := idle
	for attempt := 1; attempt <= cmd0Attempts; attempt++ {
		if err := conn.Tx(w, r); err != nil {
			return fmt.Errorf("sd card %s: CMD0: %w", c.name, err)
		}
		last = findR1(r[len(cmd0):])
		if last == r1Idle {
			if err := c.raiseClock(); err != nil {
				return err
			}
			c.status &^= StatusNoInit | StatusNoDisk
			log.Info().Str("card", c.name).Str("bus", c.bus.Name()).Msg("sd card initialized")
			return nil
		}
		log.Debug().Str("card", c.name).Int("attempt", attempt).Hex("r1", []byte{last}).Msg("sd card not idle")
	}

	c.status |= StatusNoDisk
	return fmt.Errorf("%w: %s: CMD0 response %#02x", ErrNoCard, c.name, last)
}

// raiseClock moves an idle card from the init clock to the bus maximum.
// An unlimited bus keeps the init clock.
func (c *SDCard) raiseClock() error {
	hz := c.bus.MaxSpeed()
	if hz <= initFrequency {
		return nil
	}
	if _, err := c.bus.Reconnect(hz, spi.Mode0, 8); err != nil {
		return fmt.Errorf("sd card %s: switch to %s: %w", c.name, hz, err)
	}
	return nil
}

// findR1 returns the first byte with the top bit clear, or 0xff if the card
// never answered.
func findR1(resp []byte) byte {
	for _, b := range resp {
		if b&0x80 == 0 {
			return b
		}
	}
	return idle
}
