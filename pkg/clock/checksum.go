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

package clock

import (
	"encoding/binary"
	"math/bits"
)

// checksumSeed keeps an all-zero region from checksumming to zero.
const checksumSeed uint32 = 0x5A17C0DE

// Checksum folds b into a 32-bit value, one little-endian word at a time:
// sum = rotl(sum, 1) ^ word. A trailing partial word is zero padded.
//
// The fold is linear over XOR, so flipping any single input bit always
// changes the result. It is an integrity heuristic for scratch memory, not a
// cryptographic hash.
func Checksum(b []byte) uint32 {
	sum := checksumSeed
	for len(b) >= 4 {
		sum = bits.RotateLeft32(sum, 1) ^ binary.LittleEndian.Uint32(b)
		b = b[4:]
	}
	if len(b) > 0 {
		var tail [4]byte
		copy(tail[:], b)
		sum = bits.RotateLeft32(sum, 1) ^ binary.LittleEndian.Uint32(tail[:])
	}
	return sum
}
