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
	"fmt"
)

const (
	// Signature marks a scratch region as written by this package.
	Signature uint32 = 0xBABEBABE

	// RecordSize is the encoded size of a Record in bytes.
	RecordSize = 20

	// checksumOffset is where the checksum lives; everything before it is
	// covered by the checksum.
	checksumOffset = 16
)

// Record is the layout persisted in the scratch region:
//
//	[0:4]   signature
//	[4:12]  seconds
//	[12:16] nanoseconds
//	[16:20] checksum of bytes [0:16]
//
// All fields are little-endian.
type Record struct {
	Signature uint32
	Stamp     Timestamp
	Checksum  uint32
}

// NewRecord returns a signed record for ts with a fresh checksum.
func NewRecord(ts Timestamp) Record {
	r := Record{Signature: Signature, Stamp: ts}
	r.Checksum = Checksum(r.body())
	return r
}

func (r Record) body() []byte {
	buf := make([]byte, checksumOffset)
	binary.LittleEndian.PutUint32(buf[0:4], r.Signature)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(r.Stamp.Sec)) //nolint:gosec // bit pattern preserved
	binary.LittleEndian.PutUint32(buf[12:16], r.Stamp.Nsec)
	return buf
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (r Record) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	copy(buf, r.body())
	binary.LittleEndian.PutUint32(buf[checksumOffset:], r.Checksum)
	return buf, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. It
// only decodes; use Verify to check the signature and checksum.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("%w: short record (%d bytes)", ErrRecordInvalid, len(data))
	}
	r.Signature = binary.LittleEndian.Uint32(data[0:4])
	r.Stamp.Sec = int64(binary.LittleEndian.Uint64(data[4:12])) //nolint:gosec // bit pattern preserved
	r.Stamp.Nsec = binary.LittleEndian.Uint32(data[12:16])
	r.Checksum = binary.LittleEndian.Uint32(data[checksumOffset:RecordSize])
	return nil
}

// Verify checks the signature and recomputes the checksum.
func (r Record) Verify() error {
	if r.Signature != Signature {
		return fmt.Errorf("%w: signature %#08x", ErrRecordInvalid, r.Signature)
	}
	if sum := Checksum(r.body()); sum != r.Checksum {
		return fmt.Errorf("%w: checksum %#08x, stored %#08x", ErrRecordInvalid, sum, r.Checksum)
	}
	if !r.Stamp.IsValid() {
		return fmt.Errorf("%w: nanoseconds out of range", ErrRecordInvalid)
	}
	return nil
}
