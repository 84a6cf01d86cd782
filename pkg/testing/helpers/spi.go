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
	"bytes"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi/spitest"
)

const (
	sdWakeBytes     = 10
	sdResponseBytes = 8
	sdCMD0Attempts  = 3
	sdR1Idle        = 0x01
)

var sdCMD0 = []byte{0x40, 0, 0, 0, 0, 0x95}

// SDCardPort returns an SPI port that plays back one card initialization:
// the wake clocks followed by CMD0 answered with r1. Any r1 other than idle
// is repeated for every retry, modelling an empty slot.
func SDCardPort(r1 byte) *spitest.Playback {
	w := append(bytes.Clone(sdCMD0), bytes.Repeat([]byte{0xff}, sdResponseBytes)...)
	r := bytes.Repeat([]byte{0xff}, len(w))
	r[len(sdCMD0)+1] = r1

	ops := []conntest.IO{{W: bytes.Repeat([]byte{0xff}, sdWakeBytes)}}
	attempts := 1
	if r1 != sdR1Idle {
		attempts = sdCMD0Attempts
	}
	for range attempts {
		ops = append(ops, conntest.IO{W: w, R: r})
	}

	return &spitest.Playback{
		Playback: conntest.Playback{Ops: ops, D: conn.Full, DontPanic: true},
	}
}
